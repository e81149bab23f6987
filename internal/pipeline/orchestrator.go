package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/report"
	"github.com/nhabuon/ToolTinhLai/internal/storage"
)

// Orchestrator groups the files of a Source by week and runs a Worker per
// week on a bounded pool.
type Orchestrator struct {
	extractor *report.Extractor
	recorder  Recorder
	cfg       Config
}

func NewOrchestrator(extractor *report.Extractor, recorder Recorder, cfg Config) *Orchestrator {
	if extractor == nil {
		extractor = report.New(report.DefaultConfig())
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &Orchestrator{extractor: extractor, recorder: recorder, cfg: cfg}
}

// Run imports every week found in src, oldest first in the result.
func (o *Orchestrator) Run(ctx context.Context, src Source) ([]domain.ImportSummary, error) {
	files, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", src.Describe(), err)
	}

	batches, skipped := GroupByWeek(files)
	for _, reason := range skipped {
		log.Info().Str("source", src.Describe()).Msgf("pipeline: skipped %s", reason)
	}
	if len(batches) == 0 {
		return []domain.ImportSummary{}, nil
	}

	worker := NewWorker(src, o.extractor, o.recorder)
	summaries := make([]domain.ImportSummary, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.WorkerCount)
	for i, b := range batches {
		g.Go(func() error {
			summary, err := worker.ProcessBatch(gctx, b)
			if err != nil {
				return err
			}
			summaries[i] = summary
			log.Info().
				Str("week", b.Week.Format(domain.WeekLayout)).
				Str("revenue_file", summary.RevenueFile).
				Str("ads_file", summary.AdsFile).
				Float64("revenue", summary.Revenue).
				Float64("ad_spend", summary.AdSpend).
				Msg("pipeline: week imported")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// Backfill imports every dated export in dir.
func (o *Orchestrator) Backfill(ctx context.Context, dir string) ([]domain.ImportSummary, error) {
	return o.Run(ctx, NewDirSource(dir))
}

// BackfillArchive re-imports the uploads archived under prefix.
func (o *Orchestrator) BackfillArchive(ctx context.Context, store storage.ObjectStorage, prefix string) ([]domain.ImportSummary, error) {
	return o.Run(ctx, NewObjectSource(store, prefix))
}
