package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGateway is matched by every error a Gateway returns.
	ErrGateway = errors.New("llm gateway error")

	// ErrEmptyResponse is returned when the vendor reply carries no text.
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrInvalidConfig is returned when a gateway configuration is invalid
	ErrInvalidConfig = errors.New("invalid gateway configuration")
)

// DefaultGatewayErrorMessage is reported when a gateway failure has no description.
const DefaultGatewayErrorMessage = "Unexpected error while generating prompt"

// GatewayError reports a transport, authentication, or vendor-side failure
// of an LLM call. It is never retried.
type GatewayError struct {
	// Provider names the vendor adapter that failed (e.g. "cohere").
	Provider string

	// Err is the underlying cause.
	Err error
}

// NewGatewayError wraps err as a GatewayError for provider.
func NewGatewayError(provider string, err error) *GatewayError {
	return &GatewayError{Provider: provider, Err: err}
}

// Error returns the description of the underlying cause.
func (e *GatewayError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return DefaultGatewayErrorMessage
	}
	return e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrGateway) true for every GatewayError.
func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}
