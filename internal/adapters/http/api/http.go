// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	service "github.com/okian/standings/internal/app"
	"github.com/okian/standings/internal/domain/highlights"
	"github.com/okian/standings/internal/domain/standings"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	TeamStandings(ctx context.Context, round int) (*service.Table, error)
	DivisionStandings(ctx context.Context, round int) (*service.Table, error)
	SpeakerStandings(ctx context.Context, round int, category service.Category) (*service.Table, error)
	ReplyStandings(ctx context.Context, round int) (*service.Table, error)
	CurrentResults(ctx context.Context) (*service.Current, error)
	Highlights(ctx context.Context) (highlights.Summary, error)
	Tab(ctx context.Context, round int) (*service.Tab, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	limiter          *rate.Limiter
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	standingsHandler *StandingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		standingsHandler: NewStandingsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(MetricsMiddleware(RateLimitMiddleware(s.limiter, h), endpoint)))
	}
	// Operational endpoints are never rate limited.
	mux.HandleFunc("/healthz", RequestIDMiddleware(MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")))
	mux.HandleFunc("/stats", RequestIDMiddleware(MetricsMiddleware(s.statsHandler.HandleStats, "stats")))
	route("/standings/teams", "standings_teams", s.standingsHandler.HandleTeams)
	route("/standings/divisions", "standings_divisions", s.standingsHandler.HandleDivisions)
	route("/standings/speakers", "standings_speakers", s.standingsHandler.HandleSpeakers)
	route("/standings/replies", "standings_replies", s.standingsHandler.HandleReplies)
	route("/standings/current", "standings_current", s.standingsHandler.HandleCurrent)
	route("/highlights", "highlights", s.standingsHandler.HandleHighlights)
	route("/tab", "tab", s.standingsHandler.HandleTab)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// errorStatus translates service errors to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrUnknownCategory):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrRoundNotFound):
		return http.StatusNotFound, "round_not_found"
	case errors.Is(err, standings.ErrMissingData):
		return http.StatusUnprocessableEntity, "missing_data"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, err)
}
