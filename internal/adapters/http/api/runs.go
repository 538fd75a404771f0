// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
)

// RunsHandler handles read views scoped to a single run.
type RunsHandler struct {
	deps           Dependencies
	maxScheduleDay int
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps Dependencies, maxScheduleDay int) *RunsHandler {
	return &RunsHandler{
		deps:           deps,
		maxScheduleDay: maxScheduleDay,
	}
}

// HandleRunSubresource dispatches GET /runs/{run_id}/{schedule|conflicts|roles}.
func (h *RunsHandler) HandleRunSubresource(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_run_view"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameters after /runs/
	path := strings.TrimPrefix(r.URL.Path, "/runs/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	runID, view := parts[0], parts[1]
	switch view {
	case "schedule":
		h.handleSchedule(w, r, runID)
	case "conflicts":
		h.handleConflicts(w, r, runID)
	case "roles":
		h.handleRoles(w, r, runID)
	default:
		http.NotFound(w, r)
	}
}

// handleSchedule handles GET /runs/{run_id}/schedule?day=N requests.
func (h *RunsHandler) handleSchedule(w http.ResponseWriter, r *http.Request, runID string) {
	const op = "api.get_schedule"
	dayStr := r.URL.Query().Get("day")
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if day > h.maxScheduleDay {
		writeError(w, http.StatusBadRequest, "day_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	grid, err := h.deps.ScheduleGrid(r.Context(), runID, day)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

// handleConflicts handles GET /runs/{run_id}/conflicts requests.
func (h *RunsHandler) handleConflicts(w http.ResponseWriter, r *http.Request, runID string) {
	const op = "api.get_conflicts"
	conflicts, err := h.deps.Conflicts(r.Context(), runID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, conflicts)
}

// handleRoles handles GET /runs/{run_id}/roles requests.
func (h *RunsHandler) handleRoles(w http.ResponseWriter, r *http.Request, runID string) {
	const op = "api.get_role_badges"
	badges, err := h.deps.RolesWithBadges(r.Context(), runID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, badges)
}
