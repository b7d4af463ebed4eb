// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Arithmetic errors
	CodeArithSyntax             Code = "ARITH_SYNTAX"
	CodeArithUnsupported        Code = "ARITH_UNSUPPORTED_CONSTRUCT"
	CodeArithDivisionByZero     Code = "ARITH_DIVISION_BY_ZERO"
	CodeArithNotInteger         Code = "ARITH_NOT_INTEGER"
	CodeDiceMissing             Code = "DICE_MISSING"
	CodeDiceInvalidSpec         Code = "DICE_INVALID_SPEC"
	CodeDiceInvalidCount        Code = "DICE_INVALID_COUNT"
	CodeDiceInvalidFaces        Code = "DICE_INVALID_FACES"
	CodeDiceInvalidSelection    Code = "DICE_INVALID_SELECTION"
	CodeDiceTooMany             Code = "DICE_TOO_MANY"
	CodePoolInvalidSize         Code = "POOL_INVALID_SIZE"
	CodePoolInvalidHunger       Code = "POOL_INVALID_HUNGER"
	CodePoolInvalidDifficulty   Code = "POOL_INVALID_DIFFICULTY"
	CodePoolInvalidPrior        Code = "POOL_INVALID_PRIOR_SUCCESSES"
	CodePoolInvalidDie          Code = "POOL_INVALID_DIE"
	CodeRenderOverflow          Code = "RENDER_OVERFLOW"
	CodeSeedOutOfRange          Code = "SEED_OUT_OF_RANGE"
	CodeSheetUnknownAlias       Code = "SHEET_UNKNOWN_ALIAS"
	CodeSheetUnknownProfile     Code = "SHEET_UNKNOWN_PROFILE"
	CodeSheetInvalidProfileName Code = "SHEET_INVALID_PROFILE_NAME"
	CodeSheetProfileExists      Code = "SHEET_PROFILE_EXISTS"
	CodeSheetConflictingValues  Code = "SHEET_CONFLICTING_VALUES"
	CodeSheetInvalidFilter      Code = "SHEET_INVALID_FILTER"
	CodeSheetIdentityRequired   Code = "SHEET_IDENTITY_REQUIRED"
	CodeNotFound                Code = "NOT_FOUND"
)

// GRPCCode maps a domain code onto the gRPC status code reported to clients.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - the caller sent something the engine rejects
	case CodeArithSyntax,
		CodeArithUnsupported,
		CodeArithDivisionByZero,
		CodeArithNotInteger,
		CodeDiceMissing,
		CodeDiceInvalidSpec,
		CodeDiceInvalidCount,
		CodeDiceInvalidFaces,
		CodeDiceInvalidSelection,
		CodePoolInvalidSize,
		CodePoolInvalidHunger,
		CodePoolInvalidDifficulty,
		CodePoolInvalidPrior,
		CodePoolInvalidDie,
		CodeSeedOutOfRange,
		CodeSheetUnknownAlias,
		CodeSheetInvalidProfileName,
		CodeSheetConflictingValues,
		CodeSheetInvalidFilter,
		CodeSheetIdentityRequired:
		return codes.InvalidArgument

	// ResourceExhausted - request exceeds a configured ceiling
	case CodeDiceTooMany,
		CodeRenderOverflow:
		return codes.ResourceExhausted

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeSheetUnknownProfile:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeSheetProfileExists:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
