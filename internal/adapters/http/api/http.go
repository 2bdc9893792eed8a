// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/podium/internal/adapters/dataset"
	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/analytics"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Filters(ctx context.Context, ref dataset.Table, sel filter.Selector) (service.Filters, error)
	Overview(ctx context.Context, sel filter.Selector, top int) (service.Overview, error)
	GlobalAnalysis(ctx context.Context, sel filter.Selector, mapMedal string, top int) (service.Global, error)
	SportsAndEvents(ctx context.Context, sel filter.Selector, sport string) (service.Sports, error)
	AthleteNames(ctx context.Context, sel filter.Selector) ([]string, error)
	AthleteProfile(ctx context.Context, name string) (analytics.Profile, error)
	Performance(ctx context.Context, sel filter.Selector, q service.PerformanceQuery) (service.Performance, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	pagesHandler  *PagesHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps every
// top-N query parameter.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		pagesHandler:  NewPagesHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.Handle(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/filters", "filters", s.pagesHandler.HandleFilters)
	route("/overview", "overview", s.pagesHandler.HandleOverview)
	route("/global", "global", s.pagesHandler.HandleGlobal)
	route("/sports", "sports", s.pagesHandler.HandleSports)
	route("/athletes", "athletes", s.pagesHandler.HandleAthletes)
	route("/athletes/profile", "athlete_profile", s.pagesHandler.HandleAthleteProfile)
	route("/performance", "performance", s.pagesHandler.HandlePerformance)
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

// fail writes err with the status its kind maps to. Server-side failures are logged.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Named("api").Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}
