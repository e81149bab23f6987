package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/repository"
)

type CompetitorService struct {
	products repository.ProductRepository
	repo     repository.CompetitorRepository
}

func NewCompetitorService(products repository.ProductRepository, repo repository.CompetitorRepository) *CompetitorService {
	return &CompetitorService{products: products, repo: repo}
}

// Add records a competitor price for an existing product. A zero checkedAt
// means now.
func (s *CompetitorService) Add(ctx context.Context, productID int64, name, url string, price float64, checkedAt time.Time) (*domain.CompetitorView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: competitor_name is required", ErrInvalidInput)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	obs := &domain.CompetitorObservation{
		ProductID:      product.ID,
		CompetitorName: name,
		URL:            strings.TrimSpace(url),
		Price:          price,
		CheckedAt:      checkedAt,
	}
	if err := s.repo.AddObservation(ctx, obs); err != nil {
		return nil, err
	}

	return &domain.CompetitorView{CompetitorObservation: *obs, PriceGap: obs.Price - product.SellingPrice}, nil
}

// List returns observations newest first with their gap to our selling price.
func (s *CompetitorService) List(ctx context.Context, productID int64) ([]domain.CompetitorView, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	observations, err := s.repo.ListObservations(ctx, productID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.CompetitorView, 0, len(observations))
	for _, o := range observations {
		views = append(views, domain.CompetitorView{CompetitorObservation: *o, PriceGap: o.Price - product.SellingPrice})
	}
	return views, nil
}
