package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/repository"
)

type competitorRepository struct {
	db *DB
}

func NewCompetitorRepository(db *DB) repository.CompetitorRepository {
	return &competitorRepository{db: db}
}

func (r *competitorRepository) AddObservation(ctx context.Context, o *domain.CompetitorObservation) error {
	now := time.Now().UTC()
	if o.CheckedAt.IsZero() {
		o.CheckedAt = now
	}
	query := r.db.Rebind(`
		INSERT INTO competitor_observations (product_id, competitor_name, url, price, checked_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, query,
			o.ProductID, o.CompetitorName, o.URL, o.Price, o.CheckedAt.UTC(), now,
		).Scan(&o.ID); err != nil {
			return fmt.Errorf("failed to insert competitor observation: %w", err)
		}
		o.CreatedAt = now
		return nil
	})
}

// ListObservations returns the observations of a product, latest check first.
func (r *competitorRepository) ListObservations(ctx context.Context, productID int64) ([]*domain.CompetitorObservation, error) {
	query := r.db.Rebind(`
		SELECT id, product_id, competitor_name, url, price, checked_at, created_at
		FROM competitor_observations
		WHERE product_id = ?
		ORDER BY checked_at DESC, id DESC`)

	var out []*domain.CompetitorObservation
	if err := r.db.SelectContext(ctx, &out, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list competitor observations: %w", err)
	}
	return out, nil
}
