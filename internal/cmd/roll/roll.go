// Package roll implements the local roll command line.
package roll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/louisbranch/rollkeeper/internal/core/arith"
	platformerrors "github.com/louisbranch/rollkeeper/internal/platform/errors"
	"github.com/louisbranch/rollkeeper/internal/services/roller"
	"github.com/louisbranch/rollkeeper/internal/services/roller/format"
	"github.com/louisbranch/rollkeeper/internal/systems/hunger"
)

// CLI is the roll command line.
type CLI struct {
	Seed     *int64 `help:"Fixed random seed for a reproducible roll"`
	Locale   string `help:"Reply locale" default:"en-US" env:"ROLLKEEPER_LOCALE"`
	PairRule bool   `name:"pair-rule" help:"Require two standard 10s for a standard critical"`
	NoColor  bool   `help:"Disable colored output"`

	Dice DiceCmd `cmd:"" help:"Roll a dice expression such as 4d6kh3+2"`
	Pool PoolCmd `cmd:"" help:"Roll a d10 pool with hunger dice"`
	Eval EvalCmd `cmd:"" help:"Evaluate an arithmetic expression"`
}

// Context carries the engine and output shared by every subcommand.
type Context struct {
	Ctx    context.Context
	Engine *roller.Engine
	Locale string
	Out    io.Writer
}

var (
	headlineColor = color.New(color.FgCyan, color.Bold)
	successColor  = color.New(color.FgGreen, color.Bold)
	failureColor  = color.New(color.FgRed, color.Bold)
	criticalColor = color.New(color.FgYellow, color.Bold)
)

// DiceCmd rolls a dice expression.
type DiceCmd struct {
	Expression []string `arg:"" help:"Dice expression; spaces are ignored"`
}

// Run executes the dice command.
func (c *DiceCmd) Run(app *Context) error {
	input := strings.Join(c.Expression, "")
	result, err := app.Engine.RollDice(app.Ctx, input, nil)
	if err != nil {
		return localized(app.Locale, err, input)
	}
	printHeadline(app.Out, headlineColor, format.Dice(app.Locale, result))
	return nil
}

// PoolCmd rolls a pool.
type PoolCmd struct {
	Pool       string `arg:"" help:"Pool size expression"`
	Hunger     string `arg:"" optional:"" default:"0" help:"Hunger dice expression"`
	Difficulty string `arg:"" optional:"" default:"0" help:"Difficulty expression"`
	Prior      string `arg:"" optional:"" default:"0" help:"Successes carried from an earlier roll"`
}

// Run executes the pool command.
func (c *PoolCmd) Run(app *Context) error {
	result, err := app.Engine.RollPool(app.Ctx, roller.PoolInput{
		Pool:           c.Pool,
		Hunger:         c.Hunger,
		Difficulty:     c.Difficulty,
		PriorSuccesses: c.Prior,
	})
	if err != nil {
		return localized(app.Locale, err, c.Pool)
	}
	printHeadline(app.Out, outcomeColor(result), format.Pool(app.Locale, result))
	return nil
}

func outcomeColor(result hunger.Result) *color.Color {
	switch result.Outcome {
	case hunger.OutcomeStandardCritical, hunger.OutcomeMessyCritical:
		return criticalColor
	}
	if result.MeetsDifficulty {
		return successColor
	}
	return failureColor
}

// EvalCmd evaluates arithmetic without dice.
type EvalCmd struct {
	Expression []string `arg:"" help:"Arithmetic expression; spaces are ignored"`
}

// Run executes the eval command.
func (c *EvalCmd) Run(app *Context) error {
	input := strings.Join(c.Expression, "")
	value, err := arith.Eval(input)
	if err != nil {
		return localized(app.Locale, err, input)
	}
	printHeadline(app.Out, headlineColor, format.Eval(app.Locale, value))
	return nil
}

// printHeadline writes text with its first line highlighted.
func printHeadline(out io.Writer, c *color.Color, text string) {
	headline, rest, _ := strings.Cut(text, "\n")
	c.Fprintln(out, headline)
	if rest != "" {
		fmt.Fprintln(out, rest)
	}
}

// UserError is a rejected roll, already localized.
type UserError struct {
	Message string
	Cause   error
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Cause }

func localized(locale string, err error, input string) error {
	classified := platformerrors.Classify(err)
	if recorded, ok := classified.Metadata[platformerrors.MetadataInput]; ok {
		input = recorded
	}
	return &UserError{Message: format.Error(locale, classified, input), Cause: err}
}

// Run parses args and executes the selected subcommand, writing results to
// stdout.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("roll"),
		kong.Description("Roll dice expressions and d10 pools."),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if cli.NoColor {
		color.NoColor = true
	}

	engine, err := roller.NewEngine(roller.Options{
		Rules: hunger.Rules{CriticalRequiresPairOfStandardTens: cli.PairRule},
		Seed:  cli.Seed,
	}, nil)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return kctx.Run(&Context{Ctx: ctx, Engine: engine, Locale: cli.Locale, Out: stdout})
}

// IsUserError reports whether err is a rejected roll rather than a usage or
// runtime failure.
func IsUserError(err error) bool {
	var target *UserError
	return errors.As(err, &target)
}
