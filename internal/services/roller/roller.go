// Package roller exposes the dice, pool and sheet engines behind one traced
// entry point shared by every transport.
package roller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/louisbranch/rollkeeper/internal/core/arith"
	"github.com/louisbranch/rollkeeper/internal/core/dice"
	platformerrors "github.com/louisbranch/rollkeeper/internal/platform/errors"
	"github.com/louisbranch/rollkeeper/internal/random"
	"github.com/louisbranch/rollkeeper/internal/sheet"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
	"github.com/louisbranch/rollkeeper/internal/systems/hunger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/rollkeeper/internal/services/roller"

// Options configures an Engine.
type Options struct {
	Rules   hunger.Rules
	Overlap dice.OverlapPolicy
	// MaxDice caps both dice expressions and pool sizes; zero uses
	// dice.DefaultMaxDice.
	MaxDice int
	// Seed fixes the shared source for reproducible sessions.
	Seed *int64
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Engine rolls dice and pools and serves sheet operations.
type Engine struct {
	source  *dice.LockedSource
	rules   hunger.Rules
	overlap dice.OverlapPolicy
	maxDice int
	sheets  *sheet.Service
	tracer  trace.Tracer
}

// NewEngine builds an Engine. sheets may be nil when no sheet store is
// configured; sheet operations then fail.
func NewEngine(opts Options, sheets *sheet.Service) (*Engine, error) {
	seed, err := random.Seed(opts.Seed)
	if err != nil {
		return nil, err
	}
	maxDice := opts.MaxDice
	if maxDice <= 0 {
		maxDice = dice.DefaultMaxDice
	}
	provider := opts.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Engine{
		source:  dice.NewLockedSource(dice.NewSource(seed)),
		rules:   opts.Rules,
		overlap: opts.Overlap,
		maxDice: maxDice,
		sheets:  sheets,
		tracer:  provider.Tracer(tracerName),
	}, nil
}

// ErrSheetsUnavailable indicates the engine was built without a sheet store.
var ErrSheetsUnavailable = errors.New("sheet storage is not configured")

// Rules returns the active pool rules.
func (e *Engine) Rules() hunger.Rules {
	return e.rules
}

func (e *Engine) sourceFor(seed *int64) dice.Source {
	if seed != nil {
		return dice.NewSource(*seed)
	}
	return e.source
}

func (e *Engine) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

// RollDice evaluates a dice expression. A non-nil seed rolls from a fresh
// source seeded with it.
func (e *Engine) RollDice(ctx context.Context, expression string, seed *int64) (result dice.ExpressionResult, err error) {
	_, span := e.start(ctx, "roller.dice_roll", attribute.String("roller.expression", expression))
	defer func() { finish(span, err) }()

	evaluator := dice.NewEvaluator(e.sourceFor(seed), dice.WithMaxDice(e.maxDice), dice.WithOverlapPolicy(e.overlap))
	result, err = evaluator.Evaluate(expression)
	if err != nil {
		return dice.ExpressionResult{}, platformerrors.Classify(err).WithInput(expression)
	}
	span.SetAttributes(
		attribute.Int("roller.terms", len(result.Terms)),
		attribute.Int("roller.dice", result.DiceCount()),
		attribute.String("roller.value", result.Value.String()),
	)
	return result, nil
}

// PoolInput is a pool roll request whose fields are arithmetic expressions.
// Empty fields other than Pool count as zero.
type PoolInput struct {
	Pool           string
	Hunger         string
	Difficulty     string
	PriorSuccesses string
	Seed           *int64
}

// PoolRequest evaluates every field of in and validates the result.
func (e *Engine) PoolRequest(in PoolInput) (hunger.PoolRequest, error) {
	var req hunger.PoolRequest
	fields := []struct {
		text    string
		dest    *int
		invalid error
		min     int
		max     int
	}{
		{text: in.Pool, dest: &req.Pool, invalid: hunger.ErrInvalidPool, min: 1, max: math.MaxInt},
		{text: in.Hunger, dest: &req.Hunger, invalid: hunger.ErrInvalidHunger, max: math.MaxInt},
		{text: in.Difficulty, dest: &req.Difficulty, invalid: hunger.ErrInvalidDifficulty, max: hunger.MaxSuccesses},
		{text: in.PriorSuccesses, dest: &req.PriorSuccesses, invalid: hunger.ErrInvalidPriorSuccesses, max: hunger.MaxSuccesses},
	}

	for i, f := range fields {
		text := strings.TrimSpace(f.text)
		if text == "" && i > 0 {
			text = "0"
		}
		v, err := evalInt(text)
		if err != nil {
			return hunger.PoolRequest{}, platformerrors.Classify(err).WithInput(f.text)
		}
		if v < f.min || v > f.max {
			return hunger.PoolRequest{}, platformerrors.Classify(fmt.Errorf("%d: %w", v, f.invalid)).WithInput(f.text)
		}
		*f.dest = v
	}
	if limit := min(e.maxDice, hunger.MaxPool); req.Pool > limit || req.Hunger > limit {
		err := fmt.Errorf("pool of %d rolls more than %d dice: %w", max(req.Pool, req.Hunger), limit, dice.ErrTooManyDice)
		return hunger.PoolRequest{}, platformerrors.Classify(err).WithInput(in.Pool)
	}
	return req, nil
}

func evalInt(text string) (int, error) {
	value, err := arith.Eval(text)
	if err != nil {
		return 0, err
	}
	return value.Int()
}

// RollPool draws and classifies a pool roll.
func (e *Engine) RollPool(ctx context.Context, in PoolInput) (result hunger.Result, err error) {
	_, span := e.start(ctx, "roller.pool_roll",
		attribute.String("roller.pool", in.Pool),
		attribute.String("roller.hunger", in.Hunger),
	)
	defer func() { finish(span, err) }()

	req, err := e.PoolRequest(in)
	if err != nil {
		return hunger.Result{}, err
	}
	result, err = hunger.Roll(e.sourceFor(in.Seed), req, e.rules)
	if err != nil {
		return hunger.Result{}, platformerrors.Classify(err).WithInput(in.Pool)
	}
	span.SetAttributes(
		attribute.String("roller.outcome", result.Outcome.Code()),
		attribute.Int("roller.successes", result.Successes),
	)
	return result, nil
}

// ExplainPool classifies known dice and lists the evaluation steps.
func (e *Engine) ExplainPool(ctx context.Context, req hunger.Request) (result hunger.ExplainResult, err error) {
	_, span := e.start(ctx, "roller.pool_explain",
		attribute.Int("roller.standard", len(req.Standard)),
		attribute.Int("roller.hunger", len(req.Special)),
	)
	defer func() { finish(span, err) }()

	result, err = hunger.Explain(req, e.rules)
	if err != nil {
		return hunger.ExplainResult{}, platformerrors.Classify(err)
	}
	span.SetAttributes(attribute.String("roller.outcome", result.Outcome.Code()))
	return result, nil
}

// RulesVersion describes the active pool rules.
func (e *Engine) RulesVersion() hunger.RulesMetadata {
	return hunger.RulesVersion(e.rules)
}

func (e *Engine) requireSheets() error {
	if e.sheets == nil {
		return ErrSheetsUnavailable
	}
	return nil
}

// Query resolves and evaluates an alias expression for owner.
func (e *Engine) Query(ctx context.Context, owner storage.Owner, text string) (result sheet.QueryResult, err error) {
	ctx, span := e.start(ctx, "roller.sheet_query", attribute.String("roller.expression", text))
	defer func() { finish(span, err) }()

	if err := e.requireSheets(); err != nil {
		return sheet.QueryResult{}, err
	}
	result, err = e.sheets.Query(ctx, owner, text)
	if err != nil {
		return sheet.QueryResult{}, platformerrors.Classify(err).WithInput(text)
	}
	span.SetAttributes(attribute.Int("roller.bindings", len(result.Bindings)))
	return result, nil
}

// Update writes one attribute computed from expression.
func (e *Engine) Update(ctx context.Context, owner storage.Owner, target, expression string) (result sheet.UpdateResult, err error) {
	ctx, span := e.start(ctx, "roller.sheet_update",
		attribute.String("roller.target", target),
		attribute.String("roller.expression", expression),
	)
	defer func() { finish(span, err) }()

	if err := e.requireSheets(); err != nil {
		return sheet.UpdateResult{}, err
	}
	result, err = e.sheets.Update(ctx, owner, target, expression)
	if err != nil {
		return sheet.UpdateResult{}, platformerrors.Classify(err).WithInput(target + " " + expression)
	}
	return result, nil
}

// Sheet lists a profile's attributes with an optional filter.
func (e *Engine) Sheet(ctx context.Context, owner storage.Owner, profile, filter string) (view sheet.View, err error) {
	ctx, span := e.start(ctx, "roller.sheet_list", attribute.String("roller.profile", profile))
	defer func() { finish(span, err) }()

	if err := e.requireSheets(); err != nil {
		return sheet.View{}, err
	}
	view, err = e.sheets.Sheet(ctx, owner, profile, filter)
	if err != nil {
		input := profile
		if filter != "" {
			input = filter
		}
		return sheet.View{}, platformerrors.Classify(err).WithInput(input)
	}
	return view, nil
}

// CreateProfile adds a profile for owner.
func (e *Engine) CreateProfile(ctx context.Context, owner storage.Owner, name string) (profile storage.Profile, err error) {
	ctx, span := e.start(ctx, "roller.sheet_create_profile", attribute.String("roller.profile", name))
	defer func() { finish(span, err) }()

	if err := e.requireSheets(); err != nil {
		return storage.Profile{}, err
	}
	profile, err = e.sheets.CreateProfile(ctx, owner, name)
	if err != nil {
		return storage.Profile{}, platformerrors.Classify(err).WithInput(name)
	}
	return profile, nil
}

// SetDefaultProfile switches owner's default profile.
func (e *Engine) SetDefaultProfile(ctx context.Context, owner storage.Owner, name string) (err error) {
	ctx, span := e.start(ctx, "roller.sheet_set_default", attribute.String("roller.profile", name))
	defer func() { finish(span, err) }()

	if err := e.requireSheets(); err != nil {
		return err
	}
	if err := e.sheets.SetDefaultProfile(ctx, owner, name); err != nil {
		return platformerrors.Classify(err).WithInput(name)
	}
	return nil
}

// ImportAttributes stores values keyed by alias on profile, or on the
// default profile when profile is empty, and returns the resulting sheet.
func (e *Engine) ImportAttributes(ctx context.Context, owner storage.Owner, profile string, values map[string]int) (view sheet.View, err error) {
	ctx, span := e.start(ctx, "roller.sheet_import",
		attribute.String("roller.profile", profile),
		attribute.Int("roller.values", len(values)),
	)
	defer func() { finish(span, err) }()

	if err := e.requireSheets(); err != nil {
		return sheet.View{}, err
	}
	if _, err := e.sheets.SetAttributes(ctx, owner, profile, values); err != nil {
		input := profile
		var keyErr *sheet.KeyError
		if errors.As(err, &keyErr) {
			input = keyErr.Key
		}
		return sheet.View{}, platformerrors.Classify(err).WithInput(input)
	}
	view, err = e.sheets.Sheet(ctx, owner, profile, "")
	if err != nil {
		return sheet.View{}, platformerrors.Classify(err).WithInput(profile)
	}
	return view, nil
}

// Profiles lists owner's profiles.
func (e *Engine) Profiles(ctx context.Context, owner storage.Owner) (profiles []storage.Profile, err error) {
	ctx, span := e.start(ctx, "roller.sheet_profiles")
	defer func() { finish(span, err) }()

	if err := e.requireSheets(); err != nil {
		return nil, err
	}
	profiles, err = e.sheets.Profiles(ctx, owner)
	if err != nil {
		return nil, platformerrors.Classify(err)
	}
	return profiles, nil
}
