package errors

import (
	"context"
	"errors"

	"github.com/louisbranch/rollkeeper/internal/platform/errors/i18n"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = "en-US"

// Localize renders the user-facing message for err in the given locale.
func Localize(err error, locale string) string {
	if err == nil {
		return ""
	}
	appErr := Classify(err)
	catalog := i18n.GetCatalog(locale)
	return catalog.Format(string(appErr.Code), appErr.Metadata)
}

// HandleError converts engine and domain errors to a gRPC status.
// Unclassified errors are reported as internal with a generic message.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if locale == "" {
		locale = DefaultLocale
	}

	appErr := Classify(err)
	if appErr.Code == CodeUnknown {
		return status.Error(codes.Internal, "an unexpected error occurred")
	}
	catalog := i18n.GetCatalog(locale)
	userMsg := catalog.Format(string(appErr.Code), appErr.Metadata)
	return appErr.status(catalog.Locale(), userMsg)
}

// UnaryServerInterceptor converts handler errors with HandleError.
func UnaryServerInterceptor(locale string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return resp, HandleError(err, locale)
		}
		return resp, nil
	}
}

// GetCode extracts the error code from any error.
func GetCode(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	return Classify(err).Code
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata extracts metadata from a domain error if present.
func GetMetadata(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}
