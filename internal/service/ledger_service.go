package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nhabuon/ToolTinhLai/internal/cache"
	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/report"
	"github.com/nhabuon/ToolTinhLai/internal/repository"
	"github.com/nhabuon/ToolTinhLai/internal/storage"
)

type LedgerService struct {
	repo      repository.LedgerRepository
	extractor *report.Extractor
	archive   storage.ObjectStorage
	cache     cache.DashboardCache
	now       func() time.Time
}

// NewLedgerService wires the ledger. archive may be nil, in which case
// uploads are not archived.
func NewLedgerService(repo repository.LedgerRepository, extractor *report.Extractor, archive storage.ObjectStorage, cacheImpl cache.DashboardCache) *LedgerService {
	if extractor == nil {
		extractor = report.New(report.DefaultConfig())
	}
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &LedgerService{
		repo:      repo,
		extractor: extractor,
		archive:   archive,
		cache:     cacheImpl,
		now:       time.Now,
	}
}

func validAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a finite amount >= 0", ErrInvalidInput, name)
	}
	return nil
}

// Save upserts the totals of the week containing week.
func (s *LedgerService) Save(ctx context.Context, week time.Time, revenue, adSpend, profit float64) (*domain.WeeklySummary, error) {
	if err := validAmount("revenue", revenue); err != nil {
		return nil, err
	}
	if err := validAmount("ad_spend", adSpend); err != nil {
		return nil, err
	}
	if math.IsNaN(profit) || math.IsInf(profit, 0) {
		return nil, fmt.Errorf("%w: profit must be finite", ErrInvalidInput)
	}

	rec := &domain.WeeklyRecord{
		WeekStart: domain.WeekStart(week),
		Revenue:   revenue,
		AdSpend:   adSpend,
		Profit:    profit,
	}
	if err := s.repo.UpsertWeek(ctx, rec); err != nil {
		return nil, err
	}

	log.Info().Str("week", rec.WeekStart.Format(domain.WeekLayout)).Float64("revenue", revenue).Float64("ad_spend", adSpend).Msg("ledger week saved")
	s.invalidate(ctx)
	summary := domain.Summarize(*rec)
	return &summary, nil
}

// List returns the latest weeks first; limit <= 0 means all weeks.
func (s *LedgerService) List(ctx context.Context, limit int) ([]domain.WeeklySummary, error) {
	if limit < 0 {
		limit = 0
	}

	if weeks, ok, err := s.cache.GetWeeks(ctx, limit); err == nil && ok {
		return weeks, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("ledger: cache get weeks failed")
	}

	records, err := s.repo.ListWeeks(ctx, limit)
	if err != nil {
		return nil, err
	}

	weeks := make([]domain.WeeklySummary, 0, len(records))
	for _, rec := range records {
		weeks = append(weeks, domain.Summarize(*rec))
	}

	if err := s.cache.SetWeeks(ctx, limit, weeks); err != nil {
		log.Warn().Err(err).Msg("ledger: cache set weeks failed")
	}
	return weeks, nil
}

// ExtractReports runs both extractions side by side and returns them for
// review without persisting anything. Either file may be nil.
func (s *LedgerService) ExtractReports(ctx context.Context, week time.Time, revenueFile, adsFile *domain.UploadedFile) (*domain.ExtractionResponse, error) {
	if revenueFile == nil && adsFile == nil {
		return nil, fmt.Errorf("%w: at least one report file is required", ErrInvalidInput)
	}
	if week.IsZero() {
		week = s.now()
	}

	resp := &domain.ExtractionResponse{WeekStart: domain.WeekStart(week)}

	g, gctx := errgroup.WithContext(ctx)
	run := func(file *domain.UploadedFile, role report.Role, dst **report.Result) {
		if file == nil {
			return
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.extractor.Extract(file.Filename, file.Data, role)
			for _, line := range res.Log {
				log.Debug().Str("role", string(role)).Msg(line)
			}
			*dst = &res
			return nil
		})
	}
	run(revenueFile, report.RoleRevenue, &resp.Revenue)
	run(adsFile, report.RoleAds, &resp.Ads)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.Archived = s.archiveUploads(ctx, resp.WeekStart, revenueFile, adsFile)
	return resp, nil
}

func (s *LedgerService) archiveUploads(ctx context.Context, week time.Time, files ...*domain.UploadedFile) []string {
	if s.archive == nil {
		return nil
	}

	var keys []string
	for _, f := range files {
		if f == nil {
			continue
		}
		key := storage.ArchiveKey(week, f.Filename)
		if err := s.archive.UploadObject(ctx, key, f.Data); err != nil {
			log.Warn().Err(err).Str("file", f.Filename).Msg("ledger: archive upload failed")
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// RecordTotals writes extracted totals for a week. A nil amount keeps the
// stored value, so a failed extraction never wipes a good figure. Profit is
// always preserved.
func (s *LedgerService) RecordTotals(ctx context.Context, week time.Time, revenue, adSpend *float64) (*domain.WeeklyRecord, error) {
	if revenue == nil && adSpend == nil {
		return nil, fmt.Errorf("%w: nothing to record", ErrInvalidInput)
	}

	weekStart := domain.WeekStart(week)

	var current domain.WeeklyRecord
	existing, err := s.repo.GetWeek(ctx, weekStart)
	switch {
	case err == nil:
		current = *existing
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, err
	}

	rev, ads := current.Revenue, current.AdSpend
	if revenue != nil {
		if err := validAmount("revenue", *revenue); err != nil {
			return nil, err
		}
		rev = *revenue
	}
	if adSpend != nil {
		if err := validAmount("ad_spend", *adSpend); err != nil {
			return nil, err
		}
		ads = *adSpend
	}

	rec, err := s.repo.UpsertWeekTotals(ctx, weekStart, rev, ads)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return rec, nil
}

func (s *LedgerService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateWeeks(ctx); err != nil {
		log.Warn().Err(err).Msg("ledger: cache invalidate weeks failed")
	}
}
