package search

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/budget"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/hint"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/query"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/shortcut"
	"github.com/kailas-cloud/tripfinder/internal/logger"
)

// DefaultTimeout bounds a single generator call.
const DefaultTimeout = 15 * time.Second

// Service runs the search pipeline: rate limit, validation, cache, keyword
// shortcut, LLM generation, output validation and deterministic re-filtering.
type Service struct {
	inv       *inventory.Inventory
	limiter   RateLimiter
	cache     Cache
	gen       domain.Generator
	validator *Validator
	system    string
	timeout   time.Duration
	outcomes  *prometheus.CounterVec
}

// New creates a search service over a read-only inventory.
func New(inv *inventory.Inventory, limiter RateLimiter, cache Cache, gen domain.Generator) (*Service, error) {
	v, err := NewValidator(inv)
	if err != nil {
		return nil, fmt.Errorf("build validator: %w", err)
	}
	return &Service{
		inv:       inv,
		limiter:   limiter,
		cache:     cache,
		gen:       gen,
		validator: v,
		system:    buildSystemPrompt(inv),
		timeout:   DefaultTimeout,
	}, nil
}

// WithTimeout sets the generator deadline. Non-positive values are ignored.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithOutcomes sets the outcome counter (label "outcome").
func (s *Service) WithOutcomes(c *prometheus.CounterVec) *Service {
	s.outcomes = c
	return s
}

// Search answers one query for clientID. Input is validated after the rate limit check.
//
// Errors wrap the domain sentinels: ErrRateLimited, ErrInvalidInput (as *domain.InputError),
// ErrGeneratorTimeout, ErrCanceled, ErrMissingCredential, ErrUpstreamRateLimited,
// ErrGeneratorFailed and ErrMalformedOutput.
func (s *Service) Search(ctx context.Context, clientID string, in query.Input) (match.Response, error) {
	log := logger.FromContext(ctx)

	allowed, err := s.limiter.Allow(ctx, clientID)
	if err != nil {
		log.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
		allowed = true
	}
	if !allowed {
		s.record(ctx, OutcomeRateLimited)
		return match.Response{}, domain.ErrRateLimited
	}

	q, err := in.Validate()
	if err != nil {
		s.record(ctx, OutcomeInvalid)
		return match.Response{}, err
	}

	if resp, ok := s.cache.Get(ctx, q); ok {
		s.record(ctx, OutcomeCacheHit)
		return resp, nil
	}

	c := budget.Extract(q)

	if matches, ok := shortcut.Match(s.inv, query.Normalize(q)); ok {
		resp := s.finish(ctx, q, c, matches)
		s.record(ctx, OutcomeShortcut)
		return resp, nil
	}

	raw, err := s.generate(ctx, BuildPrompt(s.system, c, q))
	if err != nil {
		outcome := generationOutcome(err)
		if outcome != OutcomeCanceled {
			log.Warn("Generation failed", zap.String("outcome", outcome), zap.Error(err))
		}
		s.record(ctx, outcome)
		return match.Response{}, err
	}

	matches, err := s.validator.Validate(raw)
	if err != nil {
		log.Warn("Rejected generator output", zap.Error(err), zap.Int("output_len", len(raw)))
		s.record(ctx, OutcomeMalformedOutput)
		return match.Response{}, err
	}

	resp := s.finish(ctx, q, c, matches)
	s.record(ctx, OutcomeLLM)
	return resp, nil
}

// Inventory returns the catalog the service searches.
func (s *Service) Inventory() *inventory.Inventory { return s.inv }

// finish re-filters matches, adds a hint when nothing is left and caches the response.
func (s *Service) finish(ctx context.Context, q string, c budget.Constraint, matches []match.Match) match.Response {
	resp := match.NewResponse(s.refilter(matches, c), "")
	if resp.IsEmpty() {
		resp.Hint = hint.Synthesize(s.inv, c, q)
	}
	s.cache.Put(ctx, q, resp)
	return resp
}

// refilter keeps known, budget-compliant, distinct ids using inventory prices.
func (s *Service) refilter(matches []match.Match, c budget.Constraint) []match.Match {
	seen := make(map[int]struct{}, len(matches))
	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		price, ok := s.inv.Price(m.ID)
		if !ok || !c.Allows(price) {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
		if len(out) == match.MaxMatches {
			break
		}
	}
	return out
}

type reply struct {
	text string
	err  error
}

// generate races the generator against the deadline. A reply arriving after
// the deadline lands in the buffered channel and is dropped.
func (s *Service) generate(ctx context.Context, p domain.Prompt) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ch := make(chan reply, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- reply{err: &panicError{value: rec, stack: debug.Stack()}}
			}
		}()
		text, err := s.gen.Generate(callCtx, p)
		ch <- reply{text: text, err: err}
	}()

	select {
	case r := <-ch:
		if r.err == nil {
			return r.text, nil
		}
		var pe *panicError
		if errors.As(r.err, &pe) {
			return "", pe
		}
		if callCtx.Err() != nil {
			return "", s.deadlineError(ctx)
		}
		return "", generatorError(r.err)
	case <-callCtx.Done():
		return "", s.deadlineError(ctx)
	}
}

// panicError carries a generator panic out of its goroutine. It wraps no
// sentinel, so it surfaces as an internal error.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("generator panicked: %v\n%s", e.value, e.stack)
}

func (s *Service) deadlineError(parent context.Context) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrCanceled, parent.Err())
	}
	return fmt.Errorf("%w after %s", domain.ErrGeneratorTimeout, s.timeout)
}

// generatorError keeps classified collaborator errors and wraps the rest as ErrGeneratorFailed.
func generatorError(err error) error {
	switch {
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrUpstreamRateLimited),
		errors.Is(err, domain.ErrGeneratorFailed):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrGeneratorFailed, err)
	}
}

func (s *Service) record(ctx context.Context, outcome string) {
	logger.FromContext(ctx).Debug("Search finished", zap.String("outcome", outcome))
	if s.outcomes != nil {
		s.outcomes.WithLabelValues(outcome).Inc()
	}
}
