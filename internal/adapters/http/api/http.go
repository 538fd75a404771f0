// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/greenroom/internal/app"
	"github.com/okian/greenroom/internal/domain/model"
	"github.com/okian/greenroom/internal/domain/wallclock"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Write operations for the organizer's admin surface.
	CreateLarp(ctx context.Context, l model.Larp) (model.Larp, error)
	CreateRun(ctx context.Context, r model.Run) (model.Run, error)
	CreateRole(ctx context.Context, r model.Role) (model.Role, error)
	CreateDocument(ctx context.Context, d model.Document) (model.Document, error)
	CreateScene(ctx context.Context, s model.Scene) (model.Scene, error)
	CreateScheduleEvent(ctx context.Context, e model.ScheduleEvent) (model.ScheduleEvent, error)
	PutAssignment(ctx context.Context, a model.RoleAssignment) error

	// Read operations expose the computed schedule views.
	ScheduleGrid(ctx context.Context, runID string, day int) (service.Grid, error)
	Conflicts(ctx context.Context, runID string) ([]model.PerformerConflict, error)
	RolesWithBadges(ctx context.Context, runID string) ([]service.RoleBadge, error)
	Portal(ctx context.Context, token string) (service.PortalView, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	adminHandler     *AdminHandler
	runsHandler      *RunsHandler
	portalHandler    *PortalHandler
	dashboardHandler *dashboardHandler
	maxScheduleDay   int
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxScheduleDay int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		adminHandler:     NewAdminHandler(deps),
		runsHandler:      NewRunsHandler(deps, maxScheduleDay),
		portalHandler:    NewPortalHandler(deps),
		dashboardHandler: newDashboardHandler(),
		maxScheduleDay:   maxScheduleDay,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/larps", MetricsMiddleware(s.adminHandler.HandlePostLarp, "larps"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.adminHandler.HandlePostRun, "runs"))
	mux.HandleFunc("/roles", MetricsMiddleware(s.adminHandler.HandlePostRole, "roles"))
	mux.HandleFunc("/documents", MetricsMiddleware(s.adminHandler.HandlePostDocument, "documents"))
	mux.HandleFunc("/scenes", MetricsMiddleware(s.adminHandler.HandlePostScene, "scenes"))
	mux.HandleFunc("/schedule-events", MetricsMiddleware(s.adminHandler.HandlePostScheduleEvent, "schedule_events"))
	mux.HandleFunc("/assignments", MetricsMiddleware(s.adminHandler.HandlePutAssignment, "assignments"))
	mux.HandleFunc("/runs/", MetricsMiddleware(s.runsHandler.HandleRunSubresource, "run_views"))
	mux.HandleFunc("/portal/", MetricsMiddleware(s.portalHandler.HandleGetPortal, "portal"))
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

// writeDomainError maps service and store errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case isValidation(err):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// isValidation reports whether an upstream error is the caller's fault.
func isValidation(err error) bool {
	for _, kind := range validationKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// isNotFound reports whether an upstream error is a missing record.
func isNotFound(err error) bool {
	for _, kind := range notFoundKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// decodeBody parses a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return ErrBadRequest
	}
	return nil
}

// parseClock validates a request's wall-clock field early so admin
// writes fail fast with a field-specific message.
func parseClock(value string) error {
	_, err := wallclock.ParseMinutes(value)
	return err
}
