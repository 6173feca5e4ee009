package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refundlens/internal/config"
	"refundlens/internal/pipeline"
)

// fakeProvider serves canned tables and can fail selected ones. Fetches run
// concurrently, so calls is guarded.
type fakeProvider struct {
	tables map[string][]pipeline.Record
	fail   map[string]error

	mu    sync.Mutex
	calls []string
}

func (f *fakeProvider) FetchTable(ctx context.Context, datasetID, tableName string) ([]pipeline.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, tableName)
	f.mu.Unlock()
	if err, ok := f.fail[tableName]; ok {
		return nil, err
	}
	return f.tables[tableName], nil
}

func testSheetsConfig() config.SheetsConfig {
	return config.SheetsConfig{
		OrdersTable:    "orders",
		LineItemsTable: "line_items",
	}
}

func newTestService(p TableProvider) *PipelineService {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewPipelineService(p, testSheetsConfig(), logger)
}

func day(t *testing.T, d string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", d, time.UTC)
	require.NoError(t, err)
	return parsed
}

func TestRunPipeline(t *testing.T) {
	provider := &fakeProvider{
		tables: map[string][]pipeline.Record{
			"orders": {
				{pipeline.ColOrderID: "1", pipeline.ColOrderDate: "01-06-2024"},
				{pipeline.ColOrderID: "2", pipeline.ColOrderDate: "02-06-2024"},
				{pipeline.ColOrderID: "3", pipeline.ColOrderDate: "15-07-2024"}, // outside window
			},
			"line_items": {
				{pipeline.ColOrderID: "1", pipeline.ColPrice: "10"},
				{pipeline.ColOrderID: "3", pipeline.ColPrice: "99"}, // belongs to dropped order
			},
		},
	}
	svc := newTestService(provider)

	result, err := svc.RunPipeline(context.Background(),
		"https://docs.google.com/spreadsheets/d/1AbC_23-xyZ/edit",
		day(t, "2024-06-01"), day(t, "2024-06-30"))

	require.NoError(t, err)
	assert.Equal(t, "1AbC_23-xyZ", result.DatasetID)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Orders, 2)
	require.Len(t, result.LineItems, 1, "line item of the out-of-window order is dropped")
	require.Len(t, result.Combined, 2)
	assert.Equal(t, "10", result.Combined[0].Price)
	assert.Equal(t, "0", result.Combined[1].Price)

	assert.ElementsMatch(t, []string{"orders", "line_items"}, provider.calls)
}

func TestRunPipeline_BareDatasetID(t *testing.T) {
	provider := &fakeProvider{tables: map[string][]pipeline.Record{}}
	svc := newTestService(provider)

	result, err := svc.RunPipeline(context.Background(), "1AbC_23-xyZ",
		day(t, "2024-06-01"), day(t, "2024-06-02"))

	require.NoError(t, err)
	assert.Equal(t, "1AbC_23-xyZ", result.DatasetID)
	assert.Empty(t, result.Combined)
}

func TestRunPipeline_EmptySourceFallsBackToConfig(t *testing.T) {
	provider := &fakeProvider{tables: map[string][]pipeline.Record{}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := testSheetsConfig()
	cfg.DatasetID = "configured-dataset"
	svc := NewPipelineService(provider, cfg, logger)

	result, err := svc.RunPipeline(context.Background(), "  ",
		day(t, "2024-06-01"), day(t, "2024-06-02"))

	require.NoError(t, err)
	assert.Equal(t, "configured-dataset", result.DatasetID)
}

func TestRunPipeline_InvalidDataset(t *testing.T) {
	svc := newTestService(&fakeProvider{})

	_, err := svc.RunPipeline(context.Background(), "",
		day(t, "2024-06-01"), day(t, "2024-06-02"))

	assert.ErrorIs(t, err, ErrInvalidDataset)
}

func TestRunPipeline_FetchFailureAbortsRun(t *testing.T) {
	provider := &fakeProvider{
		tables: map[string][]pipeline.Record{"orders": {}},
		fail:   map[string]error{"line_items": fmt.Errorf("googleapi: Error 403: quota exceeded")},
	}
	svc := newTestService(provider)

	result, err := svc.RunPipeline(context.Background(), "some-dataset",
		day(t, "2024-06-01"), day(t, "2024-06-02"))

	require.Error(t, err)
	assert.Nil(t, result, "no partial result on fetch failure")

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "line_items", fetchErr.Table)
	assert.Contains(t, err.Error(), "quota exceeded", "provider message stays visible")
}

func TestBestDay(t *testing.T) {
	svc := newTestService(&fakeProvider{})

	combined := []pipeline.EnrichedOrder{
		{OrderDate: "01-06-2024", Price: "10"},
		{OrderDate: "02-06-2024", Price: "30"},
		{OrderDate: "03-06-2024", Price: "5"},
	}

	totals, best, ok := svc.BestDay(context.Background(), combined)
	require.True(t, ok)
	assert.Equal(t, "02-06-2024", best.Day)
	assert.InDelta(t, 15.0, best.Remainder, 1e-9)
	assert.Equal(t, 3, totals.Len())
}

func TestBestDay_EmptyCombinedIsNoResult(t *testing.T) {
	svc := newTestService(&fakeProvider{})

	totals, _, ok := svc.BestDay(context.Background(), nil)
	assert.False(t, ok)
	assert.Zero(t, totals.Len())
}
