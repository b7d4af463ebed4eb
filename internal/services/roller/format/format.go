// Package format renders roll and sheet results as localized chat markup.
package format

import (
	"strconv"
	"strings"

	"github.com/louisbranch/rollkeeper/internal/core/arith"
	"github.com/louisbranch/rollkeeper/internal/core/dice"
	platformerrors "github.com/louisbranch/rollkeeper/internal/platform/errors"
	"github.com/louisbranch/rollkeeper/internal/platform/i18n/catalog"
	"github.com/louisbranch/rollkeeper/internal/sheet"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
	"github.com/louisbranch/rollkeeper/internal/systems/hunger"
	"golang.org/x/text/message"
)

func printer(locale string) *message.Printer {
	return catalog.Default().Printer(locale)
}

// Face returns the markup of one pool die: 10 bold, 6-9 plain, 2-5 struck
// through, 1 bold and struck through.
func Face(value int) string {
	s := strconv.Itoa(value)
	switch {
	case value >= hunger.Faces:
		return "**" + s + "**"
	case value >= 6:
		return s
	case value > 1:
		return "~~" + s + "~~"
	default:
		return "~~**" + s + "**~~"
	}
}

// Faces joins the markup of every die.
func Faces(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Face(v)
	}
	return strings.Join(parts, ", ")
}

// Dice renders a dice expression: the final value, one line per term and the
// evaluated expression.
func Dice(locale string, result dice.ExpressionResult) string {
	p := printer(locale)
	lines := []string{p.Sprintf("format.dice.final", result.Value.String())}
	for _, term := range result.Terms {
		lines = append(lines, p.Sprintf("format.dice.term", term.Text, term.Total.String(), termValues(term)))
	}
	lines = append(lines, p.Sprintf("format.dice.expression", result.Expression))
	return strings.Join(lines, "\n")
}

// Eval renders the value of a plain arithmetic expression.
func Eval(locale string, value arith.Value) string {
	return printer(locale).Sprintf("format.dice.final", value.String())
}

func termValues(term dice.TermResult) string {
	if !term.KeepApplied {
		return joinInts(term.Raw, "")
	}
	parts := make([]string, 0, len(term.Kept)+len(term.Dropped))
	if len(term.Kept) > 0 {
		parts = append(parts, joinInts(term.Kept, ""))
	}
	if len(term.Dropped) > 0 {
		parts = append(parts, joinInts(term.Dropped, "~~"))
	}
	return strings.Join(parts, ", ")
}

func joinInts(values []int, wrap string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = wrap + strconv.Itoa(v) + wrap
	}
	return strings.Join(parts, ", ")
}

// Status renders the headline of a pool roll.
func Status(locale string, result hunger.Result) string {
	p := printer(locale)
	label := p.Sprintf("format.outcome." + result.Outcome.Code())
	switch {
	case result.Outcome.IsWin():
		return p.Sprintf("format.pool.status_margin", label, result.Margin)
	case result.Outcome == hunger.OutcomeBestialFailure:
		return p.Sprintf("format.pool.status_bestial", label, result.BestialFailures)
	case result.Outcome == hunger.OutcomeTotalFailure:
		return p.Sprintf("format.pool.status_total", label, result.TotalFailures)
	default:
		return label
	}
}

// Pool renders a pool roll: status, successes and both pools.
func Pool(locale string, result hunger.Result) string {
	p := printer(locale)
	return strings.Join([]string{
		"> **" + Status(locale, result) + "**",
		p.Sprintf("format.pool.successes", result.Successes),
		p.Sprintf("format.pool.standard", Faces(result.Standard)),
		p.Sprintf("format.pool.hunger", Faces(result.Special)),
	}, "\n")
}

// Query renders an evaluated alias expression.
func Query(locale string, result sheet.QueryResult) string {
	p := printer(locale)
	return strings.Join([]string{
		p.Sprintf("format.sheet.query", result.Display, result.Value.String()),
		p.Sprintf("format.sheet.expression", result.Expression),
	}, "\n")
}

// Update renders an attribute write.
func Update(locale string, result sheet.UpdateResult) string {
	p := printer(locale)
	lines := []string{p.Sprintf("format.sheet.update", result.Attribute, result.Value)}
	if result.Previous != nil {
		lines = append(lines, p.Sprintf("format.sheet.previous", *result.Previous))
	}
	lines = append(lines, p.Sprintf("format.sheet.expression", result.Expression))
	return strings.Join(lines, "\n")
}

// Sheet renders a profile listing.
func Sheet(locale string, view sheet.View) string {
	p := printer(locale)
	lines := []string{p.Sprintf("format.sheet.profile", view.Profile.Name)}
	if len(view.Attributes) == 0 {
		lines = append(lines, p.Sprintf("format.sheet.empty"))
	}
	for _, attr := range view.Attributes {
		lines = append(lines, "    "+attr.Name+": "+strconv.Itoa(attr.Value))
	}
	return strings.Join(lines, "\n")
}

// Imported renders the confirmation of a bulk attribute import.
func Imported(locale string, count int, profile string) string {
	return printer(locale).Sprintf("format.sheet.imported", count, profile)
}

// Profiles renders an owner's profiles, marking the default.
func Profiles(locale string, profiles []storage.Profile) string {
	p := printer(locale)
	if len(profiles) == 0 {
		return p.Sprintf("format.sheet.no_profiles")
	}
	lines := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		key := "format.sheet.profile"
		if profile.IsDefault {
			key = "format.sheet.profile_default"
		}
		lines = append(lines, p.Sprintf(key, profile.Name))
	}
	return strings.Join(lines, "\n")
}

// ProfileCreated renders the confirmation of a new profile.
func ProfileCreated(locale, name string) string {
	return printer(locale).Sprintf("format.sheet.created", name)
}

// DefaultChanged renders the confirmation of a default profile switch.
func DefaultChanged(locale, name string) string {
	return printer(locale).Sprintf("format.sheet.default", name)
}

// Error renders err as the localized message shown for a rejected command,
// echoing input.
func Error(locale string, err error, input string) string {
	classified := platformerrors.Classify(err).WithInput(input)
	return printer(locale).Sprintf("format.error", platformerrors.Localize(classified, locale))
}
