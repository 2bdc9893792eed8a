package api

import (
	"net/http"
	"strings"

	"github.com/okian/podium/internal/adapters/dataset"
	service "github.com/okian/podium/internal/app"
)

// PagesHandler serves the dashboard page endpoints.
type PagesHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewPagesHandler creates a new pages handler.
func NewPagesHandler(deps Dependencies, maxLimit int) *PagesHandler {
	return &PagesHandler{deps: deps, maxLimit: maxLimit}
}

// HandleFilters handles GET /filters?reference=medallists.
func (h *PagesHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_filters"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	ref := dataset.Medallists
	if v := strings.TrimSpace(q.Get("reference")); v != "" {
		ref = dataset.Table(v)
	}
	f, err := h.deps.Filters(r.Context(), ref, selectorFromQuery(q))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// HandleOverview handles GET /overview?top=N plus filter parameters.
func (h *PagesHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_overview"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	top, err := limitParam(q, "top", h.maxLimit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	page, err := h.deps.Overview(r.Context(), selectorFromQuery(q), top)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGlobal handles GET /global?map_medal=Gold&top=N plus filter parameters.
func (h *PagesHandler) HandleGlobal(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_global"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	top, err := limitParam(q, "top", h.maxLimit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	page, err := h.deps.GlobalAnalysis(r.Context(), selectorFromQuery(q), q.Get("map_medal"), top)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleSports handles GET /sports?timeline_sport=S plus filter parameters.
func (h *PagesHandler) HandleSports(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_sports"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	page, err := h.deps.SportsAndEvents(r.Context(), selectorFromQuery(q), strings.TrimSpace(q.Get("timeline_sport")))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type namesResponse struct {
	Names []string `json:"names"`
}

// HandleAthletes handles GET /athletes plus filter parameters.
func (h *PagesHandler) HandleAthletes(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_athletes"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	names, err := h.deps.AthleteNames(r.Context(), selectorFromQuery(r.URL.Query()))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, namesResponse{Names: names})
}

// HandleAthleteProfile handles GET /athletes/profile?name=X.
func (h *PagesHandler) HandleAthleteProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_athlete_profile"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	p, err := h.deps.AthleteProfile(r.Context(), name)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandlePerformance handles GET /performance plus filter and chart parameters.
func (h *PagesHandler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_performance"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	topAthletes, err := limitParam(q, "top_athletes", h.maxLimit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	top, err := limitParam(q, "top", h.maxLimit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	page, err := h.deps.Performance(r.Context(), selectorFromQuery(q), service.PerformanceQuery{
		AgeGroup:    q.Get("age_group"),
		GenderScope: q.Get("gender_scope"),
		GenderValue: q.Get("gender_value"),
		TopAthletes: topAthletes,
		Continent:   q.Get("ranking_continent"),
		RankBy:      q.Get("rank_by"),
		TopN:        top,
	})
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}
