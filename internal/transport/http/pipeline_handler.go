// Package http exposes the pipeline over a chi router.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "refundlens/internal/errors"
	"refundlens/internal/pipeline"
	"refundlens/internal/services"
)

// requestDateLayout is the wire format for the day window bounds.
const requestDateLayout = "2006-01-02"

// PipelineHandler handles pipeline HTTP requests.
type PipelineHandler struct {
	service      PipelineService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewPipelineHandler creates a pipeline handler.
func NewPipelineHandler(service PipelineService, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
		validate:     validator.New(),
	}
}

// Routes returns the pipeline route tree.
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/run", h.Run)
	return r
}

// RunPipelineRequest is the body of POST /api/pipeline/run. Source may be a
// full spreadsheet URL or a bare dataset id; when omitted the configured
// default dataset is used.
type RunPipelineRequest struct {
	Source string `json:"source"`
	From   string `json:"from" validate:"required,datetime=2006-01-02"`
	To     string `json:"to" validate:"required,datetime=2006-01-02"`
}

// RunPipelineResponse carries one full pipeline run. BestDay is omitted
// when the window matched nothing to aggregate.
type RunPipelineResponse struct {
	RunID       string                   `json:"run_id"`
	DatasetID   string                   `json:"dataset_id"`
	Window      pipeline.Window          `json:"window"`
	Orders      []pipeline.Record        `json:"orders"`
	LineItems   []pipeline.Record        `json:"line_items"`
	Combined    []pipeline.EnrichedOrder `json:"combined"`
	DailyTotals map[string]float64       `json:"daily_totals"`
	BestDay     *pipeline.BestDay        `json:"best_day,omitempty"`
}

// Run executes one pipeline run over the requested dataset and day window.
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RunPipelineRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, validationError(err))
		return
	}

	// Validated against the layout above, so these cannot fail.
	from, _ := time.ParseInLocation(requestDateLayout, req.From, time.Local)
	to, _ := time.ParseInLocation(requestDateLayout, req.To, time.Local)

	result, err := h.service.RunPipeline(ctx, req.Source, from, to)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	resp := RunPipelineResponse{
		RunID:     result.RunID,
		DatasetID: result.DatasetID,
		Window:    result.Window,
		Orders:    result.Orders,
		LineItems: result.LineItems,
		Combined:  result.Combined,
	}

	totals, best, ok := h.service.BestDay(ctx, result.Combined)
	resp.DailyTotals = totals.Map()
	if ok {
		resp.BestDay = &best
	}

	render.JSON(w, r, resp)
}

// mapServiceError translates service errors onto the API error vocabulary.
func mapServiceError(err error) error {
	var fetchErr *services.FetchError
	switch {
	case errors.Is(err, services.ErrInvalidDataset):
		return apierrors.ErrInvalidDataset
	case errors.As(err, &fetchErr):
		return apierrors.FetchFailure(err)
	default:
		return err
	}
}

// validationError flattens validator output into field-level details.
func validationError(err error) error {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return apierrors.ErrValidationFailed
	}

	fields := make([]apierrors.ValidationError, 0, len(invalid))
	for _, f := range invalid {
		fields = append(fields, apierrors.ValidationError{
			Field:   f.Field(),
			Message: "failed on the '" + f.Tag() + "' rule",
		})
	}
	return apierrors.NewValidationErrors(fields)
}
