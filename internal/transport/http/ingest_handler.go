package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "auditlens/internal/errors"
	"auditlens/internal/ingest"
	"auditlens/internal/services"
	"auditlens/pkg/contracts/domain"
)

// IngestHandler accepts tabular uploads and proxies remote document fetches.
type IngestHandler struct {
	service      *services.AnalysisService
	fetcher      *ingest.Fetcher
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(service *services.AnalysisService, fetcher *ingest.Fetcher, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *IngestHandler {
	return &IngestHandler{
		service:      service,
		fetcher:      fetcher,
		logger:       logger.With(slog.String("component", "ingest_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the ingest routes.
func (h *IngestHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/upload", h.Upload)
	r.Post("/fetch", h.Fetch)

	return r
}

// Upload handles POST /api/upload with a multipart "file" part containing a
// CSV or XLSX workbook. Parsed periods land in the session along with every
// derived artifact.
func (h *IngestHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "a multipart file part is required"))
		return
	}
	defer file.Close()

	var periods []domain.PeriodDatum
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		periods, err = ingest.CSVPeriods(file)
	case ".xlsx":
		periods, err = ingest.XLSXPeriods(file)
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrUnsupportedFormat)
		return
	}
	if err != nil {
		if errors.Is(err, ingest.ErrNoTabularData) {
			h.errorHandler.HandleError(w, r, apierrors.ErrNoTabularData)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "file uploaded",
		slog.String("filename", header.Filename),
		slog.Int("periods", len(periods)),
	)

	state, err := h.service.IngestPeriods(r.Context(), requestKey(r), periods)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"ok": true, "state": state})
}

// fetchRequest is the body of POST /api/fetch.
type fetchRequest struct {
	URL string `json:"url"`
}

// Fetch handles POST /api/fetch: download a remote document on the client's
// behalf. PDF payloads pass through base64-encoded, everything else is
// reduced to text.
func (h *IngestHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("url", "a valid http(s) URL is required"))
		return
	}

	result, err := h.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.UpstreamFetchError(err))
		return
	}
	render.JSON(w, r, result)
}
