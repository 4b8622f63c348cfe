// Package chi is the HTTP transport: handlers, error mapping and router assembly.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/query"
	"github.com/kailas-cloud/tripfinder/internal/domain/trip"
	"github.com/kailas-cloud/tripfinder/internal/logger"
	healthuc "github.com/kailas-cloud/tripfinder/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tripfinder/internal/usecase/search"
)

// MaxBodyBytes caps the search request body.
const MaxBodyBytes = 16 << 10

// StatusClientClosedRequest is reported when the caller disconnects mid-search.
const StatusClientClosedRequest = 499

// User-facing error messages.
const (
	MsgRateLimited         = "Too many searches. Please wait a minute and try again."
	MsgUnavailable         = "Search is temporarily unavailable."
	MsgTimeout             = "The AI took too long to respond. Please try a simpler query."
	MsgUpstreamRateLimited = "The AI service is busy right now. Please try again in a moment."
	MsgUpstreamFailed      = "Could not reach AI service. Please try again."
	MsgMalformedOutput     = "The AI returned something unexpected. Please try again."
	MsgCanceled            = "Request cancelled."
	MsgInternal            = "Something went wrong. Please try again."
	MsgUnauthorized        = "Unauthorized."
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// InventoryResponse is the body of GET /api/inventory.
type InventoryResponse struct {
	Items []trip.Item `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server holds the HTTP handlers.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	inv           *inventory.Inventory
	metrics       http.Handler
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service) *Server {
	s := &Server{
		search:  search,
		health:  health,
		inv:     search.Inventory(),
		metrics: promhttp.Handler(),
	}
	s.errorHandlers = []errorHandler{
		inputErrorHandler,
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, MsgRateLimited),
		sentinelHandler(domain.ErrCanceled, StatusClientClosedRequest, MsgCanceled),
		sentinelHandler(domain.ErrMissingCredential, http.StatusInternalServerError, MsgUnavailable),
		sentinelHandler(domain.ErrGeneratorTimeout, http.StatusBadGateway, MsgTimeout),
		sentinelHandler(domain.ErrUpstreamRateLimited, http.StatusTooManyRequests, MsgUpstreamRateLimited),
		sentinelHandler(domain.ErrMalformedOutput, http.StatusBadGateway, MsgMalformedOutput),
		sentinelHandler(domain.ErrGeneratorFailed, http.StatusBadGateway, MsgUpstreamFailed),
	}
	return s
}

// WithMetricsHandler replaces the /metrics handler (e.g. for a private registry).
func (s *Server) WithMetricsHandler(h http.Handler) *Server {
	s.metrics = h
	return s
}

// Search handles POST /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		// Oversized or broken bodies still consume quota and fail as invalid input.
		logger.FromContext(r.Context()).Debug("Unreadable search body", zap.Error(err))
		body = nil
	}

	client := ClientID(r)
	ctx := logger.WithFields(r.Context(), zap.String("client", client))

	resp, err := s.search.Search(ctx, client, query.Decode(body))
	if err != nil {
		s.handleDomainError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Inventory handles GET /api/inventory.
func (s *Server) Inventory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, InventoryResponse{Items: s.inv.Items()})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

// ClientID returns the rate-limit bucket for r: the first X-Forwarded-For entry, or "unknown".
func ClientID(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return "unknown"
	}
	first, _, _ := strings.Cut(xff, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(first); err == nil {
		return host
	}
	return first
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// inputErrorHandler returns the validator's own message.
func inputErrorHandler(w http.ResponseWriter, err error) bool {
	var ie *domain.InputError
	if !errors.As(err, &ie) {
		return false
	}
	writeError(w, http.StatusBadRequest, ie.Message)
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, message)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, domain.ErrCanceled):
		log.Debug("search rejected", zap.Error(err))
	default:
		log.Warn("search failed", zap.Error(err))
	}

	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, MsgInternal)
}
