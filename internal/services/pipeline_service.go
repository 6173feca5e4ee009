// Package services orchestrates the pipeline: resolve the dataset, fetch
// both tables, filter to the requested window, join, and derive totals.
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"refundlens/internal/config"
	"refundlens/internal/infrastructure"
	"refundlens/internal/pipeline"
	"refundlens/internal/sheets"
)

// TableProvider returns the rows of one named table of a dataset, header
// row already folded into record keys.
type TableProvider interface {
	FetchTable(ctx context.Context, datasetID, tableName string) ([]pipeline.Record, error)
}

// RunResult is the outcome of one pipeline run. A run replaces any previous
// result wholesale; nothing here is mutated after being returned.
type RunResult struct {
	RunID     string                   `json:"run_id"`
	DatasetID string                   `json:"dataset_id"`
	Window    pipeline.Window          `json:"window"`
	Orders    []pipeline.Record        `json:"orders"`
	LineItems []pipeline.Record        `json:"line_items"`
	Combined  []pipeline.EnrichedOrder `json:"combined"`
}

// PipelineService runs the filter, join and aggregation pipeline against a
// table provider.
type PipelineService struct {
	provider TableProvider
	cfg      config.SheetsConfig
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewPipelineService creates a pipeline service.
func NewPipelineService(provider TableProvider, cfg config.SheetsConfig, logger *slog.Logger) *PipelineService {
	return &PipelineService{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "pipeline_service")),
		tracer:   otel.Tracer("refundlens/pipeline"),
	}
}

// RunPipeline fetches both tables for the dataset named by source (a
// spreadsheet URL or bare id; empty source falls back to the configured
// default dataset), filters orders to the [start, end] day window, filters
// line items to the surviving orders and joins the two. The two fetches run
// concurrently; if either fails the run aborts with no partial result.
func (s *PipelineService) RunPipeline(ctx context.Context, source string, start, end time.Time) (*RunResult, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	src := strings.TrimSpace(source)
	if src == "" {
		src = s.cfg.DatasetID
	}
	datasetID := sheets.ExtractDatasetID(src)
	if datasetID == "" {
		infrastructure.InvalidDatasetIDs.Inc()
		infrastructure.PipelineRuns.WithLabelValues("invalid_dataset").Inc()
		return nil, ErrInvalidDataset
	}

	runID := uuid.NewString()
	window := pipeline.NormalizeRange(start, end)
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.String("dataset.id", datasetID),
	)

	logger := s.logger.With(slog.String("run_id", runID), slog.String("dataset_id", datasetID))
	logger.InfoContext(ctx, "pipeline run started",
		slog.Time("window_lower", window.Lower),
		slog.Time("window_upper", window.Upper))

	orders, lineItems, err := s.fetchTables(ctx, datasetID)
	if err != nil {
		infrastructure.PipelineRuns.WithLabelValues("fetch_failed").Inc()
		logger.ErrorContext(ctx, "pipeline run aborted", slog.String("error", err.Error()))
		return nil, err
	}

	_, filterSpan := s.tracer.Start(ctx, "pipeline.filter")
	filteredOrders := pipeline.FilterOrdersByDate(orders, window)
	filteredItems := pipeline.FilterLineItemsByOrders(lineItems, filteredOrders)
	filterSpan.End()

	_, joinSpan := s.tracer.Start(ctx, "pipeline.join")
	combined := pipeline.Combine(filteredOrders, filteredItems)
	joinSpan.End()

	infrastructure.PipelineRuns.WithLabelValues("ok").Inc()
	logger.InfoContext(ctx, "pipeline run finished",
		slog.Int("orders_fetched", len(orders)),
		slog.Int("orders_in_window", len(filteredOrders)),
		slog.Int("line_items_matched", len(filteredItems)),
		slog.Int("combined", len(combined)))

	return &RunResult{
		RunID:     runID,
		DatasetID: datasetID,
		Window:    window,
		Orders:    filteredOrders,
		LineItems: filteredItems,
		Combined:  combined,
	}, nil
}

// fetchTables issues both table reads concurrently and waits for both. The
// reads are independent and read-only, so order does not matter.
func (s *PipelineService) fetchTables(ctx context.Context, datasetID string) (orders, lineItems []pipeline.Record, err error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.fetch")
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.provider.FetchTable(gctx, datasetID, s.cfg.OrdersTable)
		if err != nil {
			infrastructure.FetchFailures.WithLabelValues(s.cfg.OrdersTable).Inc()
			return &FetchError{Table: s.cfg.OrdersTable, Err: err}
		}
		orders = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.provider.FetchTable(gctx, datasetID, s.cfg.LineItemsTable)
		if err != nil {
			infrastructure.FetchFailures.WithLabelValues(s.cfg.LineItemsTable).Inc()
			return &FetchError{Table: s.cfg.LineItemsTable, Err: err}
		}
		lineItems = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return orders, lineItems, nil
}

// BestDay aggregates the combined records into per-day totals and selects
// the day whose refund minimizes the remaining total. ok is false when
// there is nothing to aggregate; that is a non-result, not an error.
func (s *PipelineService) BestDay(ctx context.Context, combined []pipeline.EnrichedOrder) (*pipeline.DailyTotals, pipeline.BestDay, bool) {
	_, span := s.tracer.Start(ctx, "pipeline.best_day")
	defer span.End()

	totals := pipeline.SumByDay(combined)
	best, ok := pipeline.SelectBestDay(totals)
	if ok {
		span.SetAttributes(
			attribute.String("best_day.day", best.Day),
			attribute.Float64("best_day.remainder", best.Remainder),
		)
	}
	return totals, best, ok
}
