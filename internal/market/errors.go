package market

import (
	"errors"
	"fmt"
)

// ErrorKind classifies upstream provider failures. Each provider signals
// errors its own way; the parsers normalize them into these kinds.
type ErrorKind string

const (
	// KindRateLimited covers provider throttling notes.
	KindRateLimited ErrorKind = "rate_limited"
	// KindUpstreamError covers errors reported in the provider's payload
	// (invalid symbol, bad request, provider-side failure).
	KindUpstreamError ErrorKind = "upstream_error"
	// KindMalformed covers payloads missing the expected envelope keys.
	KindMalformed ErrorKind = "malformed"
)

// ProviderError is an error reported by (or about) an upstream provider's
// payload. Transport failures are plain errors; a ProviderError means the
// provider answered but the answer is unusable.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider %s: %s", e.Provider, e.Kind, e.Message)
}

// IsRateLimited reports whether err is a provider rate-limit error.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == KindRateLimited
}

// ErrSuperseded is returned by Searcher when a response arrives for a
// query that a newer query has replaced.
var ErrSuperseded = errors.New("search superseded by a newer query")
