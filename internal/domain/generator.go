package domain

import "context"

// KeyPrefix is the default namespace for keys written to the KV store.
const KeyPrefix = "tripfinder:"

// Prompt is a single chat turn: fixed system instruction plus the user's query.
type Prompt struct {
	System string
	User   string
}

// Generator is the LLM capability the search pipeline consumes.
// Implementations return raw model text; callers must validate it.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
