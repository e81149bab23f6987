package cache

import (
	"context"
	"fmt"

	"github.com/nhabuon/ToolTinhLai/internal/config"
	"github.com/nhabuon/ToolTinhLai/internal/domain"
)

const (
	alertBoardKey        = "inventory:alerts"
	ledgerWeeksKeyPrefix = "ledger:weeks"
)

// DashboardCache holds the inventory alert board and recent ledger listings.
type DashboardCache interface {
	GetAlertBoard(ctx context.Context) (*domain.AlertBoard, bool, error)
	SetAlertBoard(ctx context.Context, board *domain.AlertBoard) error
	InvalidateAlertBoard(ctx context.Context) error

	GetWeeks(ctx context.Context, limit int) ([]domain.WeeklySummary, bool, error)
	SetWeeks(ctx context.Context, limit int, weeks []domain.WeeklySummary) error
	InvalidateWeeks(ctx context.Context) error

	Close() error
}

type redisDashboardCache struct {
	*redisStore
}

type noopDashboardCache struct{}

// NewDashboardCache connects to redis when caching is enabled, otherwise it
// returns a cache that never hits.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	store, err := newRedisStore(cfg)
	if err != nil {
		return nil, err
	}
	return &redisDashboardCache{redisStore: store}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetAlertBoard(ctx context.Context) (*domain.AlertBoard, bool, error) {
	var board domain.AlertBoard
	ok, err := c.getJSON(ctx, alertBoardKey, &board)
	if err != nil || !ok {
		return nil, false, err
	}
	return &board, true, nil
}

func (c *redisDashboardCache) SetAlertBoard(ctx context.Context, board *domain.AlertBoard) error {
	return c.setJSON(ctx, alertBoardKey, board)
}

func (c *redisDashboardCache) InvalidateAlertBoard(ctx context.Context) error {
	return c.drop(ctx, alertBoardKey)
}

func (c *redisDashboardCache) GetWeeks(ctx context.Context, limit int) ([]domain.WeeklySummary, bool, error) {
	var weeks []domain.WeeklySummary
	ok, err := c.getJSON(ctx, weeksKey(limit), &weeks)
	if err != nil || !ok {
		return nil, false, err
	}
	return weeks, true, nil
}

func (c *redisDashboardCache) SetWeeks(ctx context.Context, limit int, weeks []domain.WeeklySummary) error {
	return c.setJSON(ctx, weeksKey(limit), weeks)
}

func (c *redisDashboardCache) InvalidateWeeks(ctx context.Context) error {
	return c.dropPrefix(ctx, ledgerWeeksKeyPrefix)
}

func (n *noopDashboardCache) GetAlertBoard(ctx context.Context) (*domain.AlertBoard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetAlertBoard(ctx context.Context, board *domain.AlertBoard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAlertBoard(ctx context.Context) error {
	return nil
}

func (n *noopDashboardCache) GetWeeks(ctx context.Context, limit int) ([]domain.WeeklySummary, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetWeeks(ctx context.Context, limit int, weeks []domain.WeeklySummary) error {
	return nil
}

func (n *noopDashboardCache) InvalidateWeeks(ctx context.Context) error {
	return nil
}

func (n *noopDashboardCache) Close() error {
	return nil
}

func weeksKey(limit int) string {
	if limit <= 0 {
		return ledgerWeeksKeyPrefix + ":all"
	}
	return fmt.Sprintf("%s:%d", ledgerWeeksKeyPrefix, limit)
}
