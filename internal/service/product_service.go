package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nhabuon/ToolTinhLai/internal/cache"
	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/inventory"
	"github.com/nhabuon/ToolTinhLai/internal/repository"
)

type ProductService struct {
	repo  repository.ProductRepository
	cache cache.DashboardCache
	now   func() time.Time
}

func NewProductService(repo repository.ProductRepository, cacheImpl cache.DashboardCache) *ProductService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &ProductService{repo: repo, cache: cacheImpl, now: time.Now}
}

func validateProductInput(in domain.ProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case in.CostPrice < 0:
		return fmt.Errorf("%w: cost_price must be >= 0", ErrInvalidInput)
	case in.SellingPrice < 0:
		return fmt.Errorf("%w: selling_price must be >= 0", ErrInvalidInput)
	case in.StockQuantity < 0:
		return fmt.Errorf("%w: stock_quantity must be >= 0", ErrInvalidInput)
	}
	return inventory.ValidateParams(in.DailySales, in.LeadTime, in.SafetyStock)
}

// apply copies in onto p and recomputes the alert threshold.
func apply(p *domain.Product, in domain.ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.CostPrice = in.CostPrice
	p.SellingPrice = in.SellingPrice
	p.StockQuantity = in.StockQuantity
	p.DailySales = in.DailySales
	p.LeadTime = in.LeadTime
	p.SafetyStock = in.SafetyStock
	p.AlertThreshold = inventory.ReorderPoint(in.DailySales, in.LeadTime, in.SafetyStock)
}

func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if _, err := s.repo.GetProductByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %q", repository.ErrDuplicateName, name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	p := &domain.Product{}
	apply(p, in)
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Int64("product_id", p.ID).Str("name", p.Name).Int("alert_threshold", p.AlertThreshold).Msg("product created")
	s.invalidate(ctx)
	return p, nil
}

// Update replaces the editable fields of a product; the alert threshold is
// recomputed every time.
func (s *ProductService) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name != p.Name {
		if other, err := s.repo.GetProductByName(ctx, name); err == nil && other.ID != id {
			return nil, fmt.Errorf("%w: %q", repository.ErrDuplicateName, name)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	apply(p, in)
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = make([]*domain.Product, 0)
	}
	return products, nil
}

// AdjustStock adds a signed delta to the stock. Zero deltas are rejected and
// stock never goes below zero.
func (s *ProductService) AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: stock delta must not be zero", inventory.ErrInvalidParams)
	}

	p, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("product_id", id).Int("delta", delta).Int("stock", p.StockQuantity).Msg("stock adjusted")
	s.invalidate(ctx)
	return p, nil
}

// Alerts lists products at or below their reorder point, out of stock first.
func (s *ProductService) Alerts(ctx context.Context) (*domain.AlertBoard, error) {
	if board, ok, err := s.cache.GetAlertBoard(ctx); err == nil && ok {
		return board, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("products: cache get alert board failed")
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	board := BuildAlertBoard(products, s.now())

	if err := s.cache.SetAlertBoard(ctx, board); err != nil {
		log.Warn().Err(err).Msg("products: cache set alert board failed")
	}
	return board, nil
}

// BuildAlertBoard evaluates every product against its threshold.
func BuildAlertBoard(products []*domain.Product, now time.Time) *domain.AlertBoard {
	board := &domain.AlertBoard{
		Alerts:      make([]domain.InventoryAlert, 0),
		GeneratedAt: now.UTC(),
	}

	for _, p := range products {
		sev := inventory.Evaluate(p.StockQuantity, p.AlertThreshold)
		if !sev.Critical() {
			continue
		}
		switch sev {
		case inventory.SeverityOutOfStock:
			board.OutOfStock++
		case inventory.SeverityLowStock:
			board.LowStock++
		}
		board.Alerts = append(board.Alerts, domain.InventoryAlert{
			ProductID:      p.ID,
			Name:           p.Name,
			StockQuantity:  p.StockQuantity,
			AlertThreshold: p.AlertThreshold,
			Severity:       sev,
			Label:          domain.SeverityLabel(sev),
			Advice:         sev.Advice(),
			RunwayDays:     inventory.DaysOfRunway(p.StockQuantity, p.DailySales),
		})
	}

	sort.SliceStable(board.Alerts, func(i, j int) bool {
		a, b := board.Alerts[i], board.Alerts[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		return a.Name < b.Name
	})
	return board
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAlertBoard(ctx); err != nil {
		log.Warn().Err(err).Msg("products: cache invalidate alert board failed")
	}
}
