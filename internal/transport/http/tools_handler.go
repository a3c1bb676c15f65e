package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "auditlens/internal/errors"
	"auditlens/internal/services"
	"auditlens/pkg/contracts/domain"
)

// ToolsHandler exposes the deterministic analysis pipeline as tool
// endpoints. Each tool optionally accepts a fresh period history; without
// one it operates on the session's stored periods.
type ToolsHandler struct {
	service      *services.AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(service *services.AnalysisService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ToolsHandler {
	return &ToolsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "tools_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the tools routes.
func (h *ToolsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/metrics", h.ComputeMetrics)
	r.Post("/anomalies", h.ComputeAnomalies)
	r.Post("/analysis", h.ComputeAnalysis)
	r.Post("/classify", h.Classify)

	return r
}

// toolRequest is the shared body shape for period-based tools. A nil
// Periods means "use what the session already has"; an empty, non-nil list
// legitimately clears it.
type toolRequest struct {
	Periods []domain.PeriodDatum `json:"periods"`
}

func (h *ToolsHandler) decodeToolRequest(w http.ResponseWriter, r *http.Request) (*toolRequest, bool) {
	var req toolRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return nil, false
		}
	}
	return &req, true
}

// ComputeMetrics handles POST /api/tools/metrics.
func (h *ToolsHandler) ComputeMetrics(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeToolRequest(w, r)
	if !ok {
		return
	}

	metrics, err := h.service.ComputeMetrics(r.Context(), requestKey(r), req.Periods)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"financialMetrics": metrics})
}

// ComputeAnomalies handles POST /api/tools/anomalies.
func (h *ToolsHandler) ComputeAnomalies(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeToolRequest(w, r)
	if !ok {
		return
	}

	anomalies, err := h.service.ComputeAnomalies(r.Context(), requestKey(r), req.Periods)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"anomalies": anomalies})
}

// ComputeAnalysis handles POST /api/tools/analysis.
func (h *ToolsHandler) ComputeAnalysis(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeToolRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.ComputeAnalysis(r.Context(), requestKey(r), req.Periods)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"analysis": result})
}

// classifyRequest is the body of POST /api/tools/classify.
type classifyRequest struct {
	Text string `json:"text"`
}

// Classify handles POST /api/tools/classify.
func (h *ToolsHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if req.Text == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("text", "text is required"))
		return
	}

	docType := h.service.Classify(r.Context(), req.Text)
	render.JSON(w, r, map[string]any{"documentType": docType})
}
