package api

import (
	"fmt"
	"net/http"
	"strconv"

	service "github.com/okian/standings/internal/app"
)

// StandingsHandler serves the standings tables.
type StandingsHandler struct {
	deps Dependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps Dependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleTeams handles GET /standings/teams?round=N.
func (h *StandingsHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	round, ok := h.round(w, r)
	if !ok {
		return
	}
	h.respond(w)(h.deps.TeamStandings(r.Context(), round))
}

// HandleDivisions handles GET /standings/divisions?round=N.
func (h *StandingsHandler) HandleDivisions(w http.ResponseWriter, r *http.Request) {
	round, ok := h.round(w, r)
	if !ok {
		return
	}
	h.respond(w)(h.deps.DivisionStandings(r.Context(), round))
}

// HandleSpeakers handles GET /standings/speakers?round=N&category=all|novice|pro.
func (h *StandingsHandler) HandleSpeakers(w http.ResponseWriter, r *http.Request) {
	round, ok := h.round(w, r)
	if !ok {
		return
	}
	category, err := service.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.respond(w)(h.deps.SpeakerStandings(r.Context(), round, category))
}

// HandleReplies handles GET /standings/replies?round=N.
func (h *StandingsHandler) HandleReplies(w http.ResponseWriter, r *http.Request) {
	round, ok := h.round(w, r)
	if !ok {
		return
	}
	h.respond(w)(h.deps.ReplyStandings(r.Context(), round))
}

// HandleCurrent handles GET /standings/current.
func (h *StandingsHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	current, err := h.deps.CurrentResults(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

// HandleHighlights handles GET /highlights.
func (h *StandingsHandler) HandleHighlights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	summary, err := h.deps.Highlights(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleTab handles GET /tab?round=N.
func (h *StandingsHandler) HandleTab(w http.ResponseWriter, r *http.Request) {
	round, ok := h.round(w, r)
	if !ok {
		return
	}
	tab, err := h.deps.Tab(r.Context(), round)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tab)
}

// round checks the method and parses the optional round query parameter.
// It writes the error response itself and reports whether to continue.
func (h *StandingsHandler) round(w http.ResponseWriter, r *http.Request) (int, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return 0, false
	}
	s := r.URL.Query().Get("round")
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: round must be a positive integer", ErrBadRequest))
		return 0, false
	}
	return n, true
}

func (h *StandingsHandler) respond(w http.ResponseWriter) func(*service.Table, error) {
	return func(t *service.Table, err error) {
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}
