package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/inventory"
	"github.com/nhabuon/ToolTinhLai/internal/repository"
)

const productColumns = `id, name, cost_price, selling_price, stock_quantity, daily_sales,
	lead_time, safety_stock, alert_threshold, created_at, updated_at`

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	query := r.db.Rebind(`
		INSERT INTO products (
			name, cost_price, selling_price, stock_quantity, daily_sales,
			lead_time, safety_stock, alert_threshold, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			p.Name, p.CostPrice, p.SellingPrice, p.StockQuantity, p.DailySales,
			p.LeadTime, p.SafetyStock, p.AlertThreshold, now, now,
		).Scan(&p.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", repository.ErrDuplicateName, p.Name)
			}
			return fmt.Errorf("failed to insert product: %w", err)
		}
		p.CreatedAt, p.UpdatedAt = now, now
		return nil
	})
}

func (r *productRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	query := r.db.Rebind(`
		UPDATE products SET
			name = ?, cost_price = ?, selling_price = ?, stock_quantity = ?,
			daily_sales = ?, lead_time = ?, safety_stock = ?, alert_threshold = ?,
			updated_at = ?
		WHERE id = ?`)

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			p.Name, p.CostPrice, p.SellingPrice, p.StockQuantity,
			p.DailySales, p.LeadTime, p.SafetyStock, p.AlertThreshold,
			now, p.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", repository.ErrDuplicateName, p.Name)
			}
			return fmt.Errorf("failed to update product %d: %w", p.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return repository.ErrNotFound
		}
		p.UpdatedAt = now
		return nil
	})
}

func (r *productRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return getProduct(ctx, r.db, r.db.Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), id)
}

func (r *productRepository) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	return getProduct(ctx, r.db, r.db.Rebind(`SELECT `+productColumns+` FROM products WHERE name = ?`), name)
}

func (r *productRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error) {
	var updated *domain.Product
	selectQuery := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)
	updateQuery := r.db.Rebind(`UPDATE products SET stock_quantity = ?, updated_at = ? WHERE id = ?`)

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		p, err := getProduct(ctx, tx, selectQuery, id)
		if err != nil {
			return err
		}

		next, err := inventory.ApplyDelta(p.StockQuantity, delta)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, updateQuery, next, now, id); err != nil {
			return fmt.Errorf("failed to update stock of product %d: %w", id, err)
		}
		p.StockQuantity = next
		p.UpdatedAt = now
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func getProduct(ctx context.Context, q sqlx.QueryerContext, query string, arg interface{}) (*domain.Product, error) {
	var p domain.Product
	if err := sqlx.GetContext(ctx, q, &p, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}
