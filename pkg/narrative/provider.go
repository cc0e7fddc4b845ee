package narrative

import (
	"context"
	"errors"
	"fmt"
)

// Provider is a text-generation backend. Generate issues one synchronous
// request and returns the generated text. Implementations classify every
// failure as a [*ProviderError] so the synthesizer can choose between
// retry and abort.
type Provider interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	// KindRateLimited marks a request rejected for exceeding the
	// provider's rate limits; retried with backoff.
	KindRateLimited ErrorKind = iota
	// KindTransient marks a network or server-side failure that may
	// succeed on retry.
	KindTransient
	// KindAuth marks a credential failure; retrying cannot help.
	KindAuth
	// KindFatal marks every other unrecoverable failure.
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindTransient:
		return "transient"
	case KindAuth:
		return "auth"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ProviderError wraps a provider failure with its classification.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("narrative: provider %s: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the synthesizer should retry after backoff.
func (e *ProviderError) Retryable() bool {
	return e.Kind == KindRateLimited || e.Kind == KindTransient
}

// classify wraps err as a ProviderError of the given kind; a nil err
// passes through.
func classify(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Kind: kind, Err: err}
}

// classifyHTTP maps an HTTP status code to an error kind.
func classifyHTTP(status int) ErrorKind {
	switch {
	case status == 429:
		return KindRateLimited
	case status == 401 || status == 403:
		return KindAuth
	case status >= 500:
		return KindTransient
	default:
		return KindFatal
	}
}

// AsProviderError extracts the classification from err, defaulting to
// fatal for errors a provider failed to classify.
func AsProviderError(err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Kind: KindFatal, Err: err}
}
