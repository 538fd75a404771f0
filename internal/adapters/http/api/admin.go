// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/greenroom/internal/domain/model"
)

// AdminHandler handles the organizer's create/staff endpoints.
type AdminHandler struct {
	deps Dependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// larpRequest mirrors the OpenAPI schema for POST /larps.
type larpRequest struct {
	Title string `json:"title"`
}

func (l larpRequest) validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return errors.New("missing title")
	}
	return nil
}

// HandlePostLarp handles POST /larps requests.
func (h *AdminHandler) HandlePostLarp(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_larp"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req larpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	larp, err := h.deps.CreateLarp(r.Context(), model.Larp{Title: req.Title})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, larp)
}

// runRequest mirrors the OpenAPI schema for POST /runs.
type runRequest struct {
	LarpID string `json:"larp_id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
}

func (r runRequest) validate() error {
	switch {
	case strings.TrimSpace(r.LarpID) == "":
		return errors.New("missing larp_id")
	case strings.TrimSpace(r.Title) == "":
		return errors.New("missing title")
	}
	return nil
}

// HandlePostRun handles POST /runs requests.
func (h *AdminHandler) HandlePostRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_run"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req runRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	run, err := h.deps.CreateRun(r.Context(), model.Run{LarpID: req.LarpID, Title: req.Title, Date: req.Date})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

// roleRequest mirrors the OpenAPI schema for POST /roles.
type roleRequest struct {
	LarpID string `json:"larp_id"`
	Name   string `json:"name"`
}

func (r roleRequest) validate() error {
	switch {
	case strings.TrimSpace(r.LarpID) == "":
		return errors.New("missing larp_id")
	case strings.TrimSpace(r.Name) == "":
		return errors.New("missing name")
	}
	return nil
}

// HandlePostRole handles POST /roles requests.
func (h *AdminHandler) HandlePostRole(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_role"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req roleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	role, err := h.deps.CreateRole(r.Context(), model.Role{LarpID: req.LarpID, Name: req.Name})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, role)
}

// documentRequest mirrors the OpenAPI schema for POST /documents.
type documentRequest struct {
	RoleID string `json:"role_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

func (d documentRequest) validate() error {
	switch {
	case strings.TrimSpace(d.RoleID) == "":
		return errors.New("missing role_id")
	case strings.TrimSpace(d.Title) == "":
		return errors.New("missing title")
	}
	return nil
}

// HandlePostDocument handles POST /documents requests.
func (h *AdminHandler) HandlePostDocument(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_document"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req documentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	doc, err := h.deps.CreateDocument(r.Context(), model.Document{RoleID: req.RoleID, Title: req.Title, Body: req.Body})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// sceneRequest mirrors the OpenAPI schema for POST /scenes.
type sceneRequest struct {
	RunID       string `json:"run_id"`
	RoleID      string `json:"role_id"`
	DayNumber   int    `json:"day_number"`
	StartTime   string `json:"start_time"`
	DurationMin int    `json:"duration_min"`
	Title       string `json:"title"`
	PreShow     bool   `json:"pre_show"`
}

func (s sceneRequest) validate() error {
	switch {
	case strings.TrimSpace(s.RunID) == "":
		return errors.New("missing run_id")
	case strings.TrimSpace(s.RoleID) == "":
		return errors.New("missing role_id")
	case s.DayNumber < 1:
		return errors.New("day_number must be positive")
	case s.DurationMin < 1:
		return errors.New("duration_min must be positive")
	}
	if err := parseClock(s.StartTime); err != nil {
		return errors.New("invalid start_time; must be HH:MM or HH:MM:SS")
	}
	return nil
}

// HandlePostScene handles POST /scenes requests.
func (h *AdminHandler) HandlePostScene(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_scene"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sceneRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	scene, err := h.deps.CreateScene(r.Context(), model.Scene{
		RunID:       req.RunID,
		RoleID:      req.RoleID,
		DayNumber:   req.DayNumber,
		StartTime:   req.StartTime,
		DurationMin: req.DurationMin,
		Title:       req.Title,
		PreShow:     req.PreShow,
	})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, scene)
}

// scheduleEventRequest mirrors the OpenAPI schema for POST /schedule-events.
type scheduleEventRequest struct {
	RunID       string `json:"run_id"`
	DayNumber   int    `json:"day_number"`
	StartTime   string `json:"start_time"`
	DurationMin int    `json:"duration_min"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
}

func (e scheduleEventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.RunID) == "":
		return errors.New("missing run_id")
	case e.DayNumber < 1:
		return errors.New("day_number must be positive")
	case e.DurationMin < 1:
		return errors.New("duration_min must be positive")
	}
	if err := parseClock(e.StartTime); err != nil {
		return errors.New("invalid start_time; must be HH:MM or HH:MM:SS")
	}
	return nil
}

// HandlePostScheduleEvent handles POST /schedule-events requests.
func (h *AdminHandler) HandlePostScheduleEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_schedule_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scheduleEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	event, err := h.deps.CreateScheduleEvent(r.Context(), model.ScheduleEvent{
		RunID:       req.RunID,
		DayNumber:   req.DayNumber,
		StartTime:   req.StartTime,
		DurationMin: req.DurationMin,
		Kind:        req.Kind,
		Title:       req.Title,
	})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// assignmentRequest mirrors the OpenAPI schema for PUT /assignments.
type assignmentRequest struct {
	RunID     string `json:"run_id"`
	RoleID    string `json:"role_id"`
	Performer string `json:"performer"`
}

func (a assignmentRequest) validate() error {
	switch {
	case strings.TrimSpace(a.RunID) == "":
		return errors.New("missing run_id")
	case strings.TrimSpace(a.RoleID) == "":
		return errors.New("missing role_id")
	}
	return nil
}

// HandlePutAssignment handles PUT /assignments requests. A blank
// performer name is accepted and treated as unstaffing the role.
func (h *AdminHandler) HandlePutAssignment(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_assignment"
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req assignmentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.PutAssignment(r.Context(), model.RoleAssignment{
		RunID:     req.RunID,
		RoleID:    req.RoleID,
		Performer: req.Performer,
	}); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "staffed"})
}
