package tripfinder

import "github.com/kailas-cloud/tripfinder/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrRateLimited         = domain.ErrRateLimited
	ErrMissingCredential   = domain.ErrMissingCredential
	ErrTimeout             = domain.ErrGeneratorTimeout
	ErrUpstreamRateLimited = domain.ErrUpstreamRateLimited
	ErrProviderFailed      = domain.ErrGeneratorFailed
	ErrMalformedOutput     = domain.ErrMalformedOutput
	ErrCanceled            = domain.ErrCanceled
)

// InputError carries a message safe to show to end users.
type InputError = domain.InputError
