package errors

import (
	"errors"

	"github.com/louisbranch/rollkeeper/internal/core/arith"
	"github.com/louisbranch/rollkeeper/internal/core/dice"
	"github.com/louisbranch/rollkeeper/internal/render"
	"github.com/louisbranch/rollkeeper/internal/sheet"
	"github.com/louisbranch/rollkeeper/internal/sheet/alias"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
	"github.com/louisbranch/rollkeeper/internal/systems/hunger"
)

// sentinels is ordered: the first match wins, so more specific errors come
// before the storage errors they may wrap.
var sentinels = []struct {
	err  error
	code Code
}{
	{arith.ErrDivisionByZero, CodeArithDivisionByZero},
	{arith.ErrUnsupportedConstruct, CodeArithUnsupported},
	{arith.ErrSyntax, CodeArithSyntax},
	{arith.ErrNotInteger, CodeArithNotInteger},
	{dice.ErrMissingDice, CodeDiceMissing},
	{dice.ErrInvalidDiceSpec, CodeDiceInvalidSpec},
	{dice.ErrInvalidDiceCount, CodeDiceInvalidCount},
	{dice.ErrInvalidFaceCount, CodeDiceInvalidFaces},
	{dice.ErrInvalidSelection, CodeDiceInvalidSelection},
	{dice.ErrTooManyDice, CodeDiceTooMany},
	{hunger.ErrInvalidPool, CodePoolInvalidSize},
	{hunger.ErrInvalidHunger, CodePoolInvalidHunger},
	{hunger.ErrInvalidDifficulty, CodePoolInvalidDifficulty},
	{hunger.ErrInvalidPriorSuccesses, CodePoolInvalidPrior},
	{hunger.ErrInvalidDie, CodePoolInvalidDie},
	{render.ErrOverflow, CodeRenderOverflow},
	{alias.ErrUnknownProfile, CodeSheetUnknownProfile},
	{alias.ErrUnknownAlias, CodeSheetUnknownAlias},
	{sheet.ErrInvalidProfileName, CodeSheetInvalidProfileName},
	{sheet.ErrConflictingValues, CodeSheetConflictingValues},
	{sheet.ErrInvalidFilter, CodeSheetInvalidFilter},
	{storage.ErrAlreadyExists, CodeSheetProfileExists},
	{storage.ErrNotFound, CodeNotFound},
}

// Classify maps an engine error onto a domain error. Domain errors pass
// through unchanged; unrecognized errors become CodeUnknown.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return Wrap(s.code, err.Error(), err)
		}
	}
	return Wrap(CodeUnknown, err.Error(), err)
}
