package errors

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yingzhou-world/chronicle/internal/platform/errors/i18n"
)

// DefaultLocale is the message locale used when the caller supplies none.
const DefaultLocale = "en-US"

// HandleError renders a domain error as a gRPC status carrying the localized
// user-facing message. Errors without a domain code collapse to
// codes.Internal with a generic message so internals never leak to clients.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	if locale == "" {
		locale = DefaultLocale
	}

	if appErr, ok := asDomain(err); ok {
		catalog := i18n.GetCatalog(locale)
		userMsg := catalog.Format(string(appErr.Code), appErr.Metadata)
		return appErr.ToGRPCStatus(catalog.Locale(), userMsg)
	}
	return status.Error(codes.Internal, "an unexpected error occurred")
}

// GetCode returns the domain code carried anywhere in err's chain, or
// CodeUnknown when there is none.
func GetCode(err error) Code {
	if e, ok := asDomain(err); ok {
		return e.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata returns the metadata of the domain error in err's chain, or
// nil when err carries none.
func GetMetadata(err error) map[string]string {
	if e, ok := asDomain(err); ok {
		return e.Metadata
	}
	return nil
}

func asDomain(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
