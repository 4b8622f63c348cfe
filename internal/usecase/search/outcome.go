package search

import (
	"errors"

	"github.com/kailas-cloud/tripfinder/internal/domain"
)

// Outcome labels for the search outcome counter.
const (
	OutcomeRateLimited         = "rate_limited"
	OutcomeInvalid             = "invalid"
	OutcomeCacheHit            = "cache_hit"
	OutcomeShortcut            = "shortcut"
	OutcomeLLM                 = "llm"
	OutcomeTimeout             = "timeout"
	OutcomeUpstreamRateLimited = "upstream_rate_limited"
	OutcomeGeneratorError      = "generator_error"
	OutcomeMalformedOutput     = "malformed_output"
	OutcomeConfigError         = "config_error"
	OutcomeCanceled            = "canceled"
)

// Outcomes lists every outcome label, for pre-initializing counters.
var Outcomes = []string{
	OutcomeRateLimited, OutcomeInvalid, OutcomeCacheHit, OutcomeShortcut, OutcomeLLM,
	OutcomeTimeout, OutcomeUpstreamRateLimited, OutcomeGeneratorError,
	OutcomeMalformedOutput, OutcomeConfigError, OutcomeCanceled,
}

// generationOutcome classifies a failed generation step.
func generationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrCanceled):
		return OutcomeCanceled
	case errors.Is(err, domain.ErrGeneratorTimeout):
		return OutcomeTimeout
	case errors.Is(err, domain.ErrMissingCredential):
		return OutcomeConfigError
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return OutcomeUpstreamRateLimited
	default:
		return OutcomeGeneratorError
	}
}
