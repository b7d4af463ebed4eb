// Package tools exposes the roller engine as MCP tools.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	platformerrors "github.com/louisbranch/rollkeeper/internal/platform/errors"
	"github.com/louisbranch/rollkeeper/internal/render"
	"github.com/louisbranch/rollkeeper/internal/services/roller"
	"github.com/louisbranch/rollkeeper/internal/services/roller/format"
	"github.com/louisbranch/rollkeeper/internal/sheet"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
	"github.com/louisbranch/rollkeeper/internal/systems/hunger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handlers binds the tool handlers to an engine and a fallback locale.
type Handlers struct {
	engine *roller.Engine
	locale string
}

// NewHandlers returns Handlers over engine. Calls without a locale use
// defaultLocale.
func NewHandlers(engine *roller.Engine, defaultLocale string) *Handlers {
	return &Handlers{engine: engine, locale: defaultLocale}
}

func (h *Handlers) localeFor(requested string) string {
	if locale := strings.TrimSpace(requested); locale != "" {
		return locale
	}
	return h.locale
}

// toolError carries the localized message shown to the caller.
type toolError struct {
	message string
	cause   error
}

func (e *toolError) Error() string { return e.message }
func (e *toolError) Unwrap() error { return e.cause }

// reject localizes err, echoing input unless the engine already recorded the
// offending text.
func reject(locale string, err error, input string) error {
	classified := platformerrors.Classify(err)
	if _, ok := classified.Metadata[platformerrors.MetadataInput]; ok {
		input = classified.Metadata[platformerrors.MetadataInput]
	}
	return &toolError{message: format.Error(locale, classified, input), cause: err}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func ints(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}

func ownerOf(communityID, userID string) (storage.Owner, error) {
	owner := storage.Owner{CommunityID: strings.TrimSpace(communityID), UserID: strings.TrimSpace(userID)}
	if owner.CommunityID == "" || owner.UserID == "" {
		return storage.Owner{}, platformerrors.New(platformerrors.CodeSheetIdentityRequired, "community_id and user_id are required")
	}
	return owner, nil
}

// DiceRollTool defines the MCP tool schema for dice expressions.
func DiceRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "dice_roll",
		Description: "Rolls a dice expression with keep-highest and keep-lowest rules, e.g. 4d6kh3+2",
	}
}

// DiceRoll rolls a dice expression.
func (h *Handlers) DiceRoll(ctx context.Context, _ *mcp.CallToolRequest, input DiceRollInput) (*mcp.CallToolResult, DiceRollResult, error) {
	locale := h.localeFor(input.Locale)
	result, err := h.engine.RollDice(ctx, input.Expression, input.Seed)
	if err != nil {
		return nil, DiceRollResult{}, reject(locale, err, input.Expression)
	}

	out := DiceRollResult{
		Expression: result.Input,
		Evaluated:  result.Expression,
		Value:      result.Value.String(),
		Terms:      make([]DiceTerm, 0, len(result.Terms)),
		Text:       format.Dice(locale, result),
	}
	for _, term := range result.Terms {
		out.Terms = append(out.Terms, DiceTerm{
			Text:    term.Text,
			Count:   term.Count,
			Faces:   term.Faces,
			Rolls:   ints(term.Raw),
			Kept:    ints(term.Kept),
			Dropped: ints(term.Dropped),
			Total:   term.Total.String(),
		})
	}
	return textResult(out.Text), out, nil
}

// PoolRollTool defines the MCP tool schema for pool rolls.
func PoolRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "pool_roll",
		Description: "Rolls a d10 pool with hunger dice against a difficulty",
	}
}

// PoolRoll rolls and classifies a pool, attaching a dice image when the pool
// is small enough to draw.
func (h *Handlers) PoolRoll(ctx context.Context, _ *mcp.CallToolRequest, input PoolRollInput) (*mcp.CallToolResult, PoolRollResult, error) {
	locale := h.localeFor(input.Locale)
	result, err := h.engine.RollPool(ctx, roller.PoolInput{
		Pool:           input.Pool,
		Hunger:         input.Hunger,
		Difficulty:     input.Difficulty,
		PriorSuccesses: input.PriorSuccesses,
		Seed:           input.Seed,
	})
	if err != nil {
		return nil, PoolRollResult{}, reject(locale, err, input.Pool)
	}

	out := PoolRollResult{
		Standard:        ints(result.Standard),
		Hunger:          ints(result.Special),
		Successes:       result.Successes,
		Difficulty:      result.Difficulty,
		MeetsDifficulty: result.MeetsDifficulty,
		Margin:          result.Margin,
		Outcome:         result.Outcome.Code(),
		Text:            format.Pool(locale, result),
	}
	toolResult := textResult(out.Text)

	var img bytes.Buffer
	switch err := render.EncodePNG(&img, result.Standard, result.Special); {
	case err == nil:
		out.Rendered = true
		toolResult.Content = append(toolResult.Content, &mcp.ImageContent{Data: img.Bytes(), MIMEType: "image/png"})
	case errors.Is(err, render.ErrOverflow):
		toolResult.Content = append(toolResult.Content, &mcp.TextContent{Text: platformerrors.Localize(err, locale)})
	default:
		log.Printf("render pool: %v", err)
	}
	return toolResult, out, nil
}

// PoolExplainTool defines the MCP tool schema for explanations.
func PoolExplainTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "pool_explain",
		Description: "Explains the classification of known pool dice step by step",
	}
}

// PoolExplain classifies known dice.
func (h *Handlers) PoolExplain(ctx context.Context, _ *mcp.CallToolRequest, input PoolExplainInput) (*mcp.CallToolResult, PoolExplainResult, error) {
	result, err := h.engine.ExplainPool(ctx, hunger.Request{
		Standard:       input.Standard,
		Special:        input.Hunger,
		Difficulty:     input.Difficulty,
		PriorSuccesses: input.PriorSuccesses,
	})
	if err != nil {
		return nil, PoolExplainResult{}, reject(h.locale, err, fmt.Sprint(input.Standard, input.Hunger))
	}

	out := PoolExplainResult{
		Outcome:         result.Outcome.Code(),
		Successes:       result.Successes,
		MeetsDifficulty: result.MeetsDifficulty,
		Margin:          result.Margin,
		RulesVersion:    result.RulesVersion,
		Steps:           make([]ExplainStep, 0, len(result.Steps)),
	}
	for _, step := range result.Steps {
		data := step.Data
		if data == nil {
			data = map[string]any{}
		}
		out.Steps = append(out.Steps, ExplainStep{Code: step.Code, Message: step.Message, Data: data})
	}
	return nil, out, nil
}

// RulesVersionTool defines the MCP tool schema for ruleset metadata.
func RulesVersionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rules_version",
		Description: "Describes the pool roll ruleset semantics",
	}
}

// RulesVersion returns the active ruleset metadata.
func (h *Handlers) RulesVersion(_ context.Context, _ *mcp.CallToolRequest, _ RulesVersionInput) (*mcp.CallToolResult, RulesVersionResult, error) {
	meta := h.engine.RulesVersion()
	outcomes := make([]string, 0, len(meta.Outcomes))
	for _, outcome := range meta.Outcomes {
		outcomes = append(outcomes, outcome.Code())
	}
	return nil, RulesVersionResult{
		System:         meta.System,
		Module:         meta.Module,
		RulesVersion:   meta.RulesVersion,
		DiceModel:      meta.DiceModel,
		SuccessFormula: meta.SuccessFormula,
		CritRule:       meta.CritRule,
		DifficultyRule: meta.DifficultyRule,
		Outcomes:       outcomes,
	}, nil
}

// SheetCreateProfileTool defines the MCP tool schema for profile creation.
func SheetCreateProfileTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_create_profile",
		Description: "Creates a character sheet profile; the first profile becomes the default",
	}
}

// SheetCreateProfile creates a profile.
func (h *Handlers) SheetCreateProfile(ctx context.Context, _ *mcp.CallToolRequest, input SheetProfileInput) (*mcp.CallToolResult, SheetProfileResult, error) {
	locale := h.localeFor(input.Locale)
	owner, err := ownerOf(input.CommunityID, input.UserID)
	if err != nil {
		return nil, SheetProfileResult{}, reject(locale, err, "")
	}
	profile, err := h.engine.CreateProfile(ctx, owner, input.Name)
	if err != nil {
		return nil, SheetProfileResult{}, reject(locale, err, input.Name)
	}
	out := SheetProfileResult{Name: profile.Name, IsDefault: profile.IsDefault, Text: format.ProfileCreated(locale, profile.Name)}
	return textResult(out.Text), out, nil
}

// SheetSetDefaultTool defines the MCP tool schema for switching profiles.
func SheetSetDefaultTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_set_default",
		Description: "Makes a profile the default for unscoped attribute aliases",
	}
}

// SheetSetDefault switches the default profile.
func (h *Handlers) SheetSetDefault(ctx context.Context, _ *mcp.CallToolRequest, input SheetProfileInput) (*mcp.CallToolResult, SheetProfileResult, error) {
	locale := h.localeFor(input.Locale)
	owner, err := ownerOf(input.CommunityID, input.UserID)
	if err != nil {
		return nil, SheetProfileResult{}, reject(locale, err, "")
	}
	if err := h.engine.SetDefaultProfile(ctx, owner, input.Name); err != nil {
		return nil, SheetProfileResult{}, reject(locale, err, input.Name)
	}
	out := SheetProfileResult{Name: input.Name, IsDefault: true, Text: format.DefaultChanged(locale, input.Name)}
	return textResult(out.Text), out, nil
}

// SheetQueryTool defines the MCP tool schema for alias expressions.
func SheetQueryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_query",
		Description: `Evaluates arithmetic over character attributes by alias, e.g. for+dex or alt\for*2`,
	}
}

// SheetQuery evaluates an alias expression.
func (h *Handlers) SheetQuery(ctx context.Context, _ *mcp.CallToolRequest, input SheetQueryInput) (*mcp.CallToolResult, SheetQueryResult, error) {
	locale := h.localeFor(input.Locale)
	owner, err := ownerOf(input.CommunityID, input.UserID)
	if err != nil {
		return nil, SheetQueryResult{}, reject(locale, err, "")
	}
	result, err := h.engine.Query(ctx, owner, input.Expression)
	if err != nil {
		return nil, SheetQueryResult{}, reject(locale, err, input.Expression)
	}

	out := SheetQueryResult{
		Display:   result.Display,
		Evaluated: result.Expression,
		Value:     result.Value.String(),
		Profile:   result.Profile,
		Bindings:  make([]SheetBinding, 0, len(result.Bindings)),
		Text:      format.Query(locale, result),
	}
	for _, b := range result.Bindings {
		out.Bindings = append(out.Bindings, SheetBinding{Text: b.Text, Profile: b.Scope, Attribute: b.Canonical, Value: b.Value})
	}
	return textResult(out.Text), out, nil
}

// SheetUpdateTool defines the MCP tool schema for attribute writes.
func SheetUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_update",
		Description: "Sets an attribute to the value of an expression that may reference current attributes",
	}
}

// SheetUpdate writes one attribute.
func (h *Handlers) SheetUpdate(ctx context.Context, _ *mcp.CallToolRequest, input SheetUpdateInput) (*mcp.CallToolResult, SheetUpdateResult, error) {
	locale := h.localeFor(input.Locale)
	owner, err := ownerOf(input.CommunityID, input.UserID)
	if err != nil {
		return nil, SheetUpdateResult{}, reject(locale, err, "")
	}
	result, err := h.engine.Update(ctx, owner, input.Target, input.Expression)
	if err != nil {
		return nil, SheetUpdateResult{}, reject(locale, err, input.Target)
	}
	out := SheetUpdateResult{
		Profile:   result.Profile,
		Attribute: result.Attribute,
		Previous:  result.Previous,
		Value:     result.Value,
		Text:      format.Update(locale, result),
	}
	return textResult(out.Text), out, nil
}

// SheetListTool defines the MCP tool schema for listing attributes.
func SheetListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_list",
		Description: `Lists a profile's attributes, optionally filtered, e.g. value >= 3 AND name != "força"`,
	}
}

// SheetList lists a profile's attributes.
func (h *Handlers) SheetList(ctx context.Context, _ *mcp.CallToolRequest, input SheetListInput) (*mcp.CallToolResult, SheetListResult, error) {
	locale := h.localeFor(input.Locale)
	owner, err := ownerOf(input.CommunityID, input.UserID)
	if err != nil {
		return nil, SheetListResult{}, reject(locale, err, "")
	}
	view, err := h.engine.Sheet(ctx, owner, input.Profile, input.Filter)
	if err != nil {
		return nil, SheetListResult{}, reject(locale, err, input.Filter)
	}
	out := SheetListResult{
		Profile:    view.Profile.Name,
		Attributes: attributesOf(view),
		Text:       format.Sheet(locale, view),
	}
	return textResult(out.Text), out, nil
}

// SheetImportTool defines the MCP tool schema for bulk imports.
func SheetImportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_import",
		Description: "Stores many attribute values at once, e.g. from a filled character sheet form",
	}
}

// SheetImport writes a batch of attributes.
func (h *Handlers) SheetImport(ctx context.Context, _ *mcp.CallToolRequest, input SheetImportInput) (*mcp.CallToolResult, SheetImportResult, error) {
	locale := h.localeFor(input.Locale)
	owner, err := ownerOf(input.CommunityID, input.UserID)
	if err != nil {
		return nil, SheetImportResult{}, reject(locale, err, "")
	}
	view, err := h.engine.ImportAttributes(ctx, owner, input.Profile, input.Values)
	if err != nil {
		return nil, SheetImportResult{}, reject(locale, err, input.Profile)
	}
	out := SheetImportResult{
		Profile:    view.Profile.Name,
		Imported:   len(input.Values),
		Attributes: attributesOf(view),
		Text:       format.Imported(locale, len(input.Values), view.Profile.Name),
	}
	return textResult(out.Text), out, nil
}

// SheetProfilesTool defines the MCP tool schema for listing profiles.
func SheetProfilesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_profiles",
		Description: "Lists the caller's character sheet profiles and which one is the default",
	}
}

// SheetProfiles lists the caller's profiles.
func (h *Handlers) SheetProfiles(ctx context.Context, _ *mcp.CallToolRequest, input SheetProfilesInput) (*mcp.CallToolResult, SheetProfilesResult, error) {
	locale := h.localeFor(input.Locale)
	owner, err := ownerOf(input.CommunityID, input.UserID)
	if err != nil {
		return nil, SheetProfilesResult{}, reject(locale, err, "")
	}
	profiles, err := h.engine.Profiles(ctx, owner)
	if err != nil {
		return nil, SheetProfilesResult{}, reject(locale, err, "")
	}
	out := SheetProfilesResult{
		Profiles: make([]SheetProfileResult, 0, len(profiles)),
		Text:     format.Profiles(locale, profiles),
	}
	for _, profile := range profiles {
		out.Profiles = append(out.Profiles, SheetProfileResult{Name: profile.Name, IsDefault: profile.IsDefault})
	}
	return textResult(out.Text), out, nil
}

func attributesOf(view sheet.View) []SheetAttribute {
	attrs := make([]SheetAttribute, 0, len(view.Attributes))
	for _, attr := range view.Attributes {
		attrs = append(attrs, SheetAttribute{Name: attr.Name, Value: attr.Value})
	}
	return attrs
}
