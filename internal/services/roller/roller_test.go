package roller

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	platformerrors "github.com/louisbranch/rollkeeper/internal/platform/errors"
	"github.com/louisbranch/rollkeeper/internal/sheet"
	"github.com/louisbranch/rollkeeper/internal/sheet/alias"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage/sqlite"
	"github.com/louisbranch/rollkeeper/internal/systems/hunger"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var owner = storage.Owner{CommunityID: "guild-1", UserID: "user-1"}

func newTestEngine(t *testing.T, opts Options) (*Engine, *tracetest.SpanRecorder) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "sheets.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	recorder := tracetest.NewSpanRecorder()
	opts.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	engine, err := NewEngine(opts, sheet.NewService(store, nil))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine, recorder
}

func seed(v int64) *int64 { return &v }

func TestRollDiceSeededIsReproducible(t *testing.T) {
	engine, recorder := newTestEngine(t, Options{})
	ctx := context.Background()

	first, err := engine.RollDice(ctx, "4d6kh3+2", seed(7))
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	second, err := engine.RollDice(ctx, "4d6kh3+2", seed(7))
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if first.Expression != second.Expression || first.Value.Cmp(second.Value) != 0 {
		t.Fatalf("seeded rolls differ: %q vs %q", first.Expression, second.Expression)
	}

	spans := recorder.Ended()
	if len(spans) != 2 || spans[0].Name() != "roller.dice_roll" {
		t.Fatalf("spans = %v", spans)
	}
}

func TestRollDiceErrorsEchoInput(t *testing.T) {
	engine, recorder := newTestEngine(t, Options{MaxDice: 5})

	tests := []struct {
		expression string
		code       platformerrors.Code
	}{
		{expression: "0d6", code: platformerrors.CodeDiceInvalidCount},
		{expression: "6d6", code: platformerrors.CodeDiceTooMany},
		{expression: "1d6/0", code: platformerrors.CodeArithDivisionByZero},
		{expression: "2d6kh0", code: platformerrors.CodeDiceInvalidSelection},
	}
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			_, err := engine.RollDice(context.Background(), tt.expression, nil)
			if !platformerrors.IsCode(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if got := platformerrors.GetMetadata(err)[platformerrors.MetadataInput]; got != tt.expression {
				t.Fatalf("input = %q", got)
			}
		})
	}

	last := recorder.Ended()[len(recorder.Ended())-1]
	if last.Status().Code != otelcodes.Error {
		t.Fatalf("span status = %v, want error", last.Status())
	}
}

func TestPoolRequest(t *testing.T) {
	engine, _ := newTestEngine(t, Options{MaxDice: 50})

	tests := []struct {
		name  string
		in    PoolInput
		want  hunger.PoolRequest
		code  platformerrors.Code
		input string
	}{
		{
			name: "expressions",
			in:   PoolInput{Pool: "3+2", Hunger: "1*2", Difficulty: "6/2", PriorSuccesses: ""},
			want: hunger.PoolRequest{Pool: 5, Hunger: 2, Difficulty: 3},
		},
		{name: "zero pool", in: PoolInput{Pool: "1-1"}, code: platformerrors.CodePoolInvalidSize, input: "1-1"},
		{name: "empty pool", in: PoolInput{Pool: ""}, code: platformerrors.CodeArithSyntax},
		{name: "negative hunger", in: PoolInput{Pool: "3", Hunger: "-1"}, code: platformerrors.CodePoolInvalidHunger, input: "-1"},
		{name: "negative difficulty", in: PoolInput{Pool: "3", Difficulty: "0-2"}, code: platformerrors.CodePoolInvalidDifficulty, input: "0-2"},
		{name: "negative prior", in: PoolInput{Pool: "3", PriorSuccesses: "-3"}, code: platformerrors.CodePoolInvalidPrior, input: "-3"},
		{name: "fraction", in: PoolInput{Pool: "5/2"}, code: platformerrors.CodeArithNotInteger, input: "5/2"},
		{name: "too many", in: PoolInput{Pool: "51"}, code: platformerrors.CodeDiceTooMany, input: "51"},
		{name: "huge hunger", in: PoolInput{Pool: "1", Hunger: "9223372036854775807"}, code: platformerrors.CodeDiceTooMany, input: "1"},
		{name: "huge prior", in: PoolInput{Pool: "3", PriorSuccesses: "9223372036854775807"}, code: platformerrors.CodePoolInvalidPrior, input: "9223372036854775807"},
		{name: "huge difficulty", in: PoolInput{Pool: "3", Difficulty: "1000001"}, code: platformerrors.CodePoolInvalidDifficulty, input: "1000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.PoolRequest(tt.in)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Fatalf("request = %+v, want %+v", got, tt.want)
				}
				return
			}
			if !platformerrors.IsCode(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if tt.input != "" {
				if got := platformerrors.GetMetadata(err)[platformerrors.MetadataInput]; got != tt.input {
					t.Fatalf("input = %q, want %q", got, tt.input)
				}
			}
		})
	}
}

func TestRollPool(t *testing.T) {
	engine, recorder := newTestEngine(t, Options{})

	result, err := engine.RollPool(context.Background(), PoolInput{Pool: "5", Hunger: "2", Difficulty: "3", Seed: seed(11)})
	if err != nil {
		t.Fatalf("roll pool: %v", err)
	}
	if len(result.Standard) != 3 || len(result.Special) != 2 {
		t.Fatalf("pools = %v %v", result.Standard, result.Special)
	}
	again, err := engine.RollPool(context.Background(), PoolInput{Pool: "5", Hunger: "2", Difficulty: "3", Seed: seed(11)})
	if err != nil {
		t.Fatalf("roll pool: %v", err)
	}
	if again.Outcome != result.Outcome || again.Successes != result.Successes {
		t.Fatal("expected seeded pool rolls to match")
	}

	raised, err := engine.RollPool(context.Background(), PoolInput{Pool: "2", Hunger: "4"})
	if err != nil {
		t.Fatalf("roll pool: %v", err)
	}
	if len(raised.Standard) != 0 || len(raised.Special) != 4 {
		t.Fatalf("expected hunger to raise the pool, got %v %v", raised.Standard, raised.Special)
	}

	var sawOutcome bool
	for _, span := range recorder.Ended() {
		for _, attr := range span.Attributes() {
			if attr.Key == "roller.outcome" {
				sawOutcome = true
			}
		}
	}
	if !sawOutcome {
		t.Fatal("expected outcome attribute on pool span")
	}
}

func TestExplainPoolAndRulesVersion(t *testing.T) {
	engine, _ := newTestEngine(t, Options{Rules: hunger.Rules{CriticalRequiresPairOfStandardTens: true}})

	explained, err := engine.ExplainPool(context.Background(), hunger.Request{Standard: []int{10, 4}, Special: []int{10}, Difficulty: 2})
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if explained.Outcome != hunger.OutcomeMessyCritical {
		t.Fatalf("outcome = %v, want messy critical under the pair rule", explained.Outcome)
	}
	if len(explained.Steps) == 0 {
		t.Fatal("expected steps")
	}
	if engine.RulesVersion().CritRule == hunger.RulesVersion(hunger.Rules{}).CritRule {
		t.Fatal("expected rules metadata to follow the configured variant")
	}

	_, err = engine.ExplainPool(context.Background(), hunger.Request{Standard: []int{11}})
	if !platformerrors.IsCode(err, platformerrors.CodePoolInvalidDie) {
		t.Fatalf("err = %v", err)
	}
}

func TestSheetOperations(t *testing.T) {
	engine, recorder := newTestEngine(t, Options{})
	ctx := context.Background()

	if _, err := engine.CreateProfile(ctx, owner, "main"); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if _, err := engine.Update(ctx, owner, "for", "3"); err != nil {
		t.Fatalf("update: %v", err)
	}
	query, err := engine.Query(ctx, owner, "for+2")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if query.Display != "força+2" || query.Value.String() != "5" {
		t.Fatalf("query = %+v", query)
	}

	_, err = engine.Query(ctx, owner, "nope+1")
	if !platformerrors.IsCode(err, platformerrors.CodeSheetUnknownAlias) {
		t.Fatalf("err = %v, want unknown alias", err)
	}
	if !errors.Is(err, alias.ErrUnknownAlias) {
		t.Fatal("expected classified error to keep the sentinel")
	}

	view, err := engine.Sheet(ctx, owner, "", "")
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	if view.Profile.Name != "main" || len(view.Attributes) != 1 {
		t.Fatalf("view = %+v", view)
	}

	if _, err := engine.CreateProfile(ctx, owner, "alt"); err != nil {
		t.Fatalf("create alt: %v", err)
	}
	if err := engine.SetDefaultProfile(ctx, owner, "alt"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	profiles, err := engine.Profiles(ctx, owner)
	if err != nil || len(profiles) != 2 {
		t.Fatalf("profiles = %v, %v", profiles, err)
	}

	names := map[string]bool{}
	for _, span := range recorder.Ended() {
		names[span.Name()] = true
	}
	for _, want := range []string{"roller.sheet_query", "roller.sheet_update", "roller.sheet_create_profile"} {
		if !names[want] {
			t.Errorf("missing span %s", want)
		}
	}
}

func TestSheetsUnavailable(t *testing.T) {
	engine, err := NewEngine(Options{Seed: seed(1)}, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.Query(context.Background(), owner, "for"); !errors.Is(err, ErrSheetsUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
