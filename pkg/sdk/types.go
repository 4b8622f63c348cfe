package tripfinder

import (
	"context"

	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
	"github.com/kailas-cloud/tripfinder/internal/domain/trip"
)

// Item is a bookable travel experience.
type Item struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Location string   `json:"location"`
	Price    int      `json:"price"` // USD
	Tags     []string `json:"tags"`
}

// Match is one recommended item with a short justification.
type Match struct {
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

// Result is the answer to one search. Hint is set only when Matches is empty
// and the query carries a budget or conflicting vibes.
type Result struct {
	Matches []Match `json:"matches"`
	Hint    string  `json:"hint,omitempty"`
}

// Prompt is the chat turn handed to a Generator.
type Prompt struct {
	System string
	User   string
}

// Generator produces raw model text for a prompt. The output must be a JSON
// object {"matches":[{"id":int,"reason":string}]}; anything else is rejected.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// generatorAdapter wraps a public Generator to satisfy domain.Generator.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, p domain.Prompt) (string, error) {
	return a.inner.Generate(ctx, Prompt{System: p.System, User: p.User})
}

// HealthCheck forwards to the inner generator when it supports health checks.
func (a *generatorAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func toInternalItems(items []Item) []trip.Item {
	out := make([]trip.Item, len(items))
	for i, it := range items {
		tags := make([]trip.Tag, len(it.Tags))
		for j, t := range it.Tags {
			tags[j] = trip.Tag(t)
		}
		out[i] = trip.Item{ID: it.ID, Title: it.Title, Location: it.Location, Price: it.Price, Tags: tags}
	}
	return out
}

func fromInternalItem(it trip.Item) Item {
	tags := make([]string, len(it.Tags))
	for i, t := range it.Tags {
		tags[i] = string(t)
	}
	return Item{ID: it.ID, Title: it.Title, Location: it.Location, Price: it.Price, Tags: tags}
}

func fromInternalResponse(r match.Response) Result {
	matches := make([]Match, len(r.Matches))
	for i, m := range r.Matches {
		matches[i] = Match{ID: m.ID, Reason: m.Reason}
	}
	return Result{Matches: matches, Hint: r.Hint}
}
