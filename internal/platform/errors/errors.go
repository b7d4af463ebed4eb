package errors

import (
	"maps"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain is the error domain reported in gRPC error details.
const Domain = "github.com/louisbranch/rollkeeper"

// MetadataInput is the metadata key that echoes the offending input.
const MetadataInput = "Input"

// Error is a classified engine failure. Message is the internal text used in
// logs and spans; Metadata feeds the localized templates.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so callers can compare against
// New(code, "").
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// With returns a copy of e with key set in its metadata.
func (e *Error) With(key, value string) *Error {
	clone := *e
	clone.Metadata = maps.Clone(e.Metadata)
	if clone.Metadata == nil {
		clone.Metadata = make(map[string]string, 1)
	}
	clone.Metadata[key] = value
	return &clone
}

// WithInput returns a copy of e that echoes input in localized messages.
func (e *Error) WithInput(input string) *Error {
	return e.With(MetadataInput, input)
}

// New creates an error with a code and internal message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap classifies cause under code.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// status converts e to a gRPC status carrying an ErrorInfo with the code and
// metadata and a LocalizedMessage with userMessage.
func (e *Error) status(locale, userMessage string) error {
	st := status.New(e.Code.GRPCCode(), e.Message)
	detailed, err := st.WithDetails(
		&errdetails.ErrorInfo{Reason: string(e.Code), Domain: Domain, Metadata: e.Metadata},
		&errdetails.LocalizedMessage{Locale: locale, Message: userMessage},
	)
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
