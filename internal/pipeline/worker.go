package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/report"
)

// Worker extracts and records one week at a time.
type Worker struct {
	source    Source
	extractor *report.Extractor
	recorder  Recorder
}

func NewWorker(source Source, extractor *report.Extractor, recorder Recorder) *Worker {
	return &Worker{source: source, extractor: extractor, recorder: recorder}
}

// ProcessBatch extracts both reports of b and records whatever came out
// usable. A week where neither report yields a total is not written.
func (w *Worker) ProcessBatch(ctx context.Context, b Batch) (domain.ImportSummary, error) {
	summary := domain.ImportSummary{WeekStart: b.Week, Log: make([]string, 0, 2)}

	revenue, err := w.extract(ctx, b.Revenue, report.RoleRevenue, &summary)
	if err != nil {
		return summary, err
	}
	adSpend, err := w.extract(ctx, b.Ads, report.RoleAds, &summary)
	if err != nil {
		return summary, err
	}

	if b.Revenue != nil {
		summary.RevenueFile = b.Revenue.Name
	}
	if b.Ads != nil {
		summary.AdsFile = b.Ads.Name
	}

	if revenue == nil && adSpend == nil {
		summary.Log = append(summary.Log, fmt.Sprintf("week %s: nothing usable, ledger untouched", b.Week.Format(domain.WeekLayout)))
		return summary, nil
	}

	rec, err := w.recorder.RecordTotals(ctx, b.Week, revenue, adSpend)
	if err != nil {
		return summary, fmt.Errorf("failed to record week %s: %w", b.Week.Format(domain.WeekLayout), err)
	}
	summary.Revenue = rec.Revenue
	summary.AdSpend = rec.AdSpend
	return summary, nil
}

// extract returns nil when the file is absent or degraded.
func (w *Worker) extract(ctx context.Context, ref *FileRef, role report.Role, summary *domain.ImportSummary) (*float64, error) {
	if ref == nil {
		return nil, nil
	}

	data, err := w.source.Read(ctx, *ref)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		summary.Log = append(summary.Log, fmt.Sprintf("%s report %s: read failed: %v", role, ref.Name, err))
		log.Warn().Err(err).Str("file", ref.Name).Msg("pipeline: read failed")
		return nil, nil
	}

	res := w.extractor.Extract(ref.Name, data, role)
	summary.Log = append(summary.Log, res.Log...)
	if !res.OK() {
		return nil, nil
	}
	total := res.Total
	return &total, nil
}
