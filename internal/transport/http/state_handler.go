package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "auditlens/internal/errors"
	"auditlens/internal/middleware"
	"auditlens/internal/services"
	"auditlens/internal/session"
)

// StateHandler serves session state reads and deep-merge patches.
type StateHandler struct {
	service      *services.AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewStateHandler creates a new state handler.
func NewStateHandler(service *services.AnalysisService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *StateHandler {
	return &StateHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "state_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the state routes.
func (h *StateHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetState)
	r.Post("/patch", h.PatchState)
	r.Delete("/", h.DeleteState)

	return r
}

// stateEnvelope wraps state responses with the resolved identity, matching
// the analyzer frontend's expectations.
type stateEnvelope struct {
	TenantID  string `json:"tenantId"`
	SessionID string `json:"sessionId"`
	State     any    `json:"state"`
}

// patchRequest is the body of POST /patch.
type patchRequest struct {
	Patch map[string]any `json:"patch"`
}

// GetState handles GET /api/state.
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	key := requestKey(r)
	state := h.service.State(r.Context(), key)
	render.JSON(w, r, stateEnvelope{
		TenantID:  key.Tenant,
		SessionID: key.Session,
		State:     state,
	})
}

// PatchState handles POST /api/state/patch.
func (h *StateHandler) PatchState(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if req.Patch == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("patch", "patch object is required"))
		return
	}

	key := requestKey(r)
	state, err := h.service.Patch(r.Context(), key, req.Patch)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPatch) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusBadRequest, "INVALID_PATCH",
				"Patch does not fit the session state shape", err.Error(),
			))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{"ok": true, "state": state})
}

// DeleteState handles DELETE /api/state.
func (h *StateHandler) DeleteState(w http.ResponseWriter, r *http.Request) {
	key := requestKey(r)
	h.service.Delete(r.Context(), key)
	render.JSON(w, r, map[string]any{"ok": true})
}

// requestKey builds the session key from the identity middleware's context
// values.
func requestKey(r *http.Request) session.Key {
	return session.Key{
		Tenant:  middleware.TenantFromContext(r.Context()),
		Session: middleware.SessionFromContext(r.Context()),
	}
}
