package health

import "context"

// StorePinger checks KV store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// LLMChecker checks LLM provider availability.
type LLMChecker interface {
	HealthCheck(ctx context.Context) error
}
