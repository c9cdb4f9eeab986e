// Package http exposes the partition session over a JSON API with RFC 7807
// error responses.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "sheetsplit/internal/errors"
	"sheetsplit/internal/partition"
	"sheetsplit/internal/services"
)

// PartitionServiceInterface is what the handler needs from the service layer
type PartitionServiceInterface interface {
	Load(path string) (*services.LoadResult, error)
	Preview(req services.FilterRequest) (*services.PreviewResult, error)
	Extract(req services.FilterRequest) (*services.ExtractResult, error)
	Reset() error
	Summary() partition.Summary
	PartitionNames() []string
	Export(outputDir, filename string) (string, error)
}

// PartitionHandler handles the partition session endpoints
type PartitionHandler struct {
	service      PartitionServiceInterface
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
	validate     *validator.Validate
}

// NewPartitionHandler creates a partition handler
func NewPartitionHandler(service PartitionServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *PartitionHandler {
	return &PartitionHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "partition_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the session routes
func (h *PartitionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/load", h.Load)
	r.Post("/preview", h.Preview)
	r.Post("/extract", h.Extract)
	r.Post("/reset", h.Reset)
	r.Get("/summary", h.GetSummary)
	r.Get("/partitions", h.GetPartitions)
	r.Post("/export", h.Export)

	return r
}

// LoadRequest asks the service to import a tabular file
type LoadRequest struct {
	Path string `json:"path" validate:"required"`
}

// FilterJSON carries a combination of conditions in the request body
type FilterJSON struct {
	Columns    []string `json:"columns" validate:"required,min=1,dive,required"`
	Conditions []string `json:"conditions" validate:"required,min=1"`
	Strategy   string   `json:"strategy" validate:"omitempty,oneof=contains substring exact regexp regex pattern"`
	Op         string   `json:"op" validate:"omitempty,oneof=and or"`
}

// ExportRequest asks the service to write the session's partitions
type ExportRequest struct {
	OutputDir string `json:"output_dir"`
	Filename  string `json:"filename"`
}

// Load handles POST /load
func (h *PartitionHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := h.decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Load(req.Path)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset loaded",
		slog.String("path", req.Path),
		slog.Int("rows", result.RowCount),
	)
	render.JSON(w, r, result)
}

// Preview handles POST /preview
func (h *PartitionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	filterReq, err := h.decodeFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Preview(filterReq)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Extract handles POST /extract
func (h *PartitionHandler) Extract(w http.ResponseWriter, r *http.Request) {
	filterReq, err := h.decodeFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Extract(filterReq)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "partition extracted",
		slog.String("name", result.Name),
		slog.Int("rows", result.RowCount),
	)
	render.JSON(w, r, result)
}

// Reset handles POST /reset
func (h *PartitionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"status": "reset"})
}

// GetSummary handles GET /summary
func (h *PartitionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Summary())
}

// GetPartitions handles GET /partitions
func (h *PartitionHandler) GetPartitions(w http.ResponseWriter, r *http.Request) {
	names := h.service.PartitionNames()
	if names == nil {
		names = []string{}
	}
	render.JSON(w, r, map[string]any{"partitions": names})
}

// Export handles POST /export
func (h *PartitionHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := h.decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	path, err := h.service.Export(req.OutputDir, req.Filename)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "workbook exported", slog.String("path", path))
	render.JSON(w, r, map[string]any{"path": path})
}

func (h *PartitionHandler) decodeFilter(r *http.Request) (services.FilterRequest, error) {
	var body FilterJSON
	if err := h.decode(r, &body); err != nil {
		return services.FilterRequest{}, err
	}
	return services.FilterRequest{
		Columns:    body.Columns,
		Conditions: body.Conditions,
		Strategy:   body.Strategy,
		Op:         body.Op,
	}, nil
}

// decode parses and validates a JSON request body
func (h *PartitionHandler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewInvalidInputError("invalid request body")
	}
	if err := h.validate.Struct(v); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	return nil
}
