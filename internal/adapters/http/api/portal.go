// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// PortalHandler handles performer-facing portal requests.
type PortalHandler struct {
	deps Dependencies
}

// NewPortalHandler creates a new portal handler.
func NewPortalHandler(deps Dependencies) *PortalHandler {
	return &PortalHandler{deps: deps}
}

// HandleGetPortal handles GET /portal/{token} requests. The token is the
// role's access token, not its ID, so performers never see internal IDs.
func (h *PortalHandler) HandleGetPortal(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_portal"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /portal/
	token := strings.TrimPrefix(r.URL.Path, "/portal/")
	if token == "" || strings.Contains(token, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	view, err := h.deps.Portal(r.Context(), token)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
