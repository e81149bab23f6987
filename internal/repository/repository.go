// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("a product with this name already exists")
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductByName(ctx context.Context, name string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	// AdjustStock adds delta to the stock of product id in one transaction.
	// Results below zero fail with inventory.ErrInsufficientStock.
	AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error)
}

type LedgerRepository interface {
	UpsertWeek(ctx context.Context, rec *domain.WeeklyRecord) error
	// UpsertWeekTotals writes revenue and ad spend, keeping any profit already
	// stored for the week.
	UpsertWeekTotals(ctx context.Context, weekStart time.Time, revenue, adSpend float64) (*domain.WeeklyRecord, error)
	GetWeek(ctx context.Context, weekStart time.Time) (*domain.WeeklyRecord, error)
	ListWeeks(ctx context.Context, limit int) ([]*domain.WeeklyRecord, error)
}

type CompetitorRepository interface {
	AddObservation(ctx context.Context, o *domain.CompetitorObservation) error
	ListObservations(ctx context.Context, productID int64) ([]*domain.CompetitorObservation, error)
}
