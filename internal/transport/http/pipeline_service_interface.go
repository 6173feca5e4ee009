package http

import (
	"context"
	"time"

	"refundlens/internal/pipeline"
	"refundlens/internal/services"
)

// PipelineService is the service surface the pipeline handler consumes.
type PipelineService interface {
	RunPipeline(ctx context.Context, source string, start, end time.Time) (*services.RunResult, error)
	BestDay(ctx context.Context, combined []pipeline.EnrichedOrder) (*pipeline.DailyTotals, pipeline.BestDay, bool)
}
