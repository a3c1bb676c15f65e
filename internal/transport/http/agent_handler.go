package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "auditlens/internal/errors"
	"auditlens/internal/services"
	"auditlens/pkg/contracts/domain"
)

// AgentHandler runs the LLM agent for a session.
type AgentHandler struct {
	service      *services.AgentService
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAgentHandler creates a new agent handler.
func NewAgentHandler(service *services.AgentService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AgentHandler {
	return &AgentHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "agent_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the agent routes.
func (h *AgentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.RunAgent)
	return r
}

// agentRequest is the body of POST /api/agent.
type agentRequest struct {
	Messages []domain.AgentMessage `json:"messages" validate:"required,min=1,dive"`
}

// RunAgent handles POST /api/agent.
func (h *AgentHandler) RunAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, validationError(err))
		return
	}

	result, err := h.service.Run(r.Context(), requestKey(r), req.Messages)
	if err != nil {
		if errors.Is(err, services.ErrAgentDisabled) {
			h.errorHandler.HandleError(w, r, apierrors.ErrAgentDisabled)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadGateway, "AGENT_BACKEND_FAILED",
			"The analysis agent backend failed", err.Error(),
		))
		return
	}

	render.JSON(w, r, result)
}

// validationError flattens validator output into field-level API details.
func validationError(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]apierrors.ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, apierrors.ValidationError{
				Field:   fe.Field(),
				Message: fe.Tag(),
			})
		}
		return apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED",
			"Request validation failed", details,
		)
	}
	return apierrors.InvalidRequestWithError(err)
}
