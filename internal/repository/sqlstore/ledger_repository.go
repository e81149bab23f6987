package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/repository"
)

const weeklyColumns = `id, week_start, revenue, ad_spend, profit, updated_at`

type ledgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

// UpsertWeek stores rec, overwriting any earlier record for the same week.
func (r *ledgerRepository) UpsertWeek(ctx context.Context, rec *domain.WeeklyRecord) error {
	now := time.Now().UTC()
	query := r.db.Rebind(`
		INSERT INTO weekly_records (week_start, revenue, ad_spend, profit, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (week_start)
		DO UPDATE SET
			revenue = excluded.revenue,
			ad_spend = excluded.ad_spend,
			profit = excluded.profit,
			updated_at = excluded.updated_at
		RETURNING id`)

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, query,
			rec.WeekStart, rec.Revenue, rec.AdSpend, rec.Profit, now,
		).Scan(&rec.ID); err != nil {
			return fmt.Errorf("failed to upsert week %s: %w", rec.WeekStart.Format("2006-01-02"), err)
		}
		rec.UpdatedAt = now
		return nil
	})
}

func (r *ledgerRepository) UpsertWeekTotals(ctx context.Context, weekStart time.Time, revenue, adSpend float64) (*domain.WeeklyRecord, error) {
	now := time.Now().UTC()
	upsert := r.db.Rebind(`
		INSERT INTO weekly_records (week_start, revenue, ad_spend, profit, updated_at)
		VALUES (?, ?, ?, 0, ?)
		ON CONFLICT (week_start)
		DO UPDATE SET
			revenue = excluded.revenue,
			ad_spend = excluded.ad_spend,
			updated_at = excluded.updated_at`)
	selectQuery := r.db.Rebind(`SELECT ` + weeklyColumns + ` FROM weekly_records WHERE week_start = ?`)

	var rec *domain.WeeklyRecord
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, upsert, weekStart, revenue, adSpend, now); err != nil {
			return fmt.Errorf("failed to upsert totals for week %s: %w", weekStart.Format("2006-01-02"), err)
		}
		var err error
		rec, err = getWeek(ctx, tx, selectQuery, weekStart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ledgerRepository) GetWeek(ctx context.Context, weekStart time.Time) (*domain.WeeklyRecord, error) {
	return getWeek(ctx, r.db, r.db.Rebind(`SELECT `+weeklyColumns+` FROM weekly_records WHERE week_start = ?`), weekStart)
}

// ListWeeks returns the most recent weeks first. A limit <= 0 returns all.
func (r *ledgerRepository) ListWeeks(ctx context.Context, limit int) ([]*domain.WeeklyRecord, error) {
	query := `SELECT ` + weeklyColumns + ` FROM weekly_records ORDER BY week_start DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var records []*domain.WeeklyRecord
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list weekly records: %w", err)
	}
	return records, nil
}

func getWeek(ctx context.Context, q sqlx.QueryerContext, query string, weekStart time.Time) (*domain.WeeklyRecord, error) {
	var rec domain.WeeklyRecord
	if err := sqlx.GetContext(ctx, q, &rec, query, weekStart); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get weekly record: %w", err)
	}
	return &rec, nil
}
