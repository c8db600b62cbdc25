package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/claims-cli/internal/model"
)

// RunBatch processes every input through the per-document pipeline with a
// bounded worker pool. Items fail independently; the batch always runs to
// completion and the summary is assembled once, at the end, in input order.
func (p *Processor) RunBatch(ctx context.Context, inputs []string) *model.RunSummary {
	started := time.Now()
	summary := &model.RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: started,
		Items:     make([]model.ItemResult, len(inputs)),
	}

	concurrency := p.cfg.Batch.MaxConcurrentClaims
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("batch started",
		zap.String("run_id", summary.RunID),
		zap.Int("inputs", len(inputs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range inputs {
		g.Go(func() error {
			summary.Items[i] = p.ProcessFile(gctx, path)
			return nil // item failures never abort the batch
		})
	}
	_ = g.Wait()

	for _, item := range summary.Items {
		if item.Status == model.OutcomeSuccess {
			summary.Successes++
		} else {
			summary.Failures++
		}
	}
	summary.Duration = time.Since(started).Milliseconds()

	zap.L().Info("batch complete",
		zap.String("run_id", summary.RunID),
		zap.Int("successes", summary.Successes),
		zap.Int("failures", summary.Failures),
		zap.Int64("duration_ms", summary.Duration),
	)
	return summary
}
