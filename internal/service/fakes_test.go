package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/inventory"
	"github.com/nhabuon/ToolTinhLai/internal/repository"
	"github.com/nhabuon/ToolTinhLai/internal/storage"
)

type memProducts struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Product
}

func newMemProducts() *memProducts {
	return &memProducts{rows: make(map[int64]domain.Product)}
}

func (m *memProducts) CreateProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Name == p.Name {
			return repository.ErrDuplicateName
		}
	}
	m.nextID++
	p.ID = m.nextID
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) UpdateProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (m *memProducts) GetProductByName(_ context.Context, name string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Name == name {
			r := row
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memProducts) ListProducts(_ context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Product, 0, len(m.rows))
	for _, row := range m.rows {
		r := row
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProducts) AdjustStock(_ context.Context, id int64, delta int) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	stock, err := inventory.ApplyDelta(row.StockQuantity, delta)
	if err != nil {
		return nil, err
	}
	row.StockQuantity = stock
	m.rows[id] = row
	return &row, nil
}

type memLedger struct {
	mu    sync.Mutex
	weeks map[string]domain.WeeklyRecord
}

func newMemLedger() *memLedger {
	return &memLedger{weeks: make(map[string]domain.WeeklyRecord)}
}

func (m *memLedger) UpsertWeek(_ context.Context, rec *domain.WeeklyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weeks[rec.WeekStart.Format(domain.WeekLayout)] = *rec
	return nil
}

func (m *memLedger) UpsertWeekTotals(_ context.Context, week time.Time, revenue, adSpend float64) (*domain.WeeklyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := week.Format(domain.WeekLayout)
	rec := m.weeks[key]
	rec.WeekStart = week
	rec.Revenue = revenue
	rec.AdSpend = adSpend
	m.weeks[key] = rec
	return &rec, nil
}

func (m *memLedger) GetWeek(_ context.Context, week time.Time) (*domain.WeeklyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.weeks[week.Format(domain.WeekLayout)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (m *memLedger) ListWeeks(_ context.Context, limit int) ([]*domain.WeeklyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.WeeklyRecord, 0, len(m.weeks))
	for _, rec := range m.weeks {
		r := rec
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memCompetitors struct {
	mu   sync.Mutex
	rows []domain.CompetitorObservation
}

func (m *memCompetitors) AddObservation(_ context.Context, o *domain.CompetitorObservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.CheckedAt.IsZero() {
		o.CheckedAt = time.Now().UTC()
	}
	o.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *o)
	return nil
}

func (m *memCompetitors) ListObservations(_ context.Context, productID int64) ([]*domain.CompetitorObservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.CompetitorObservation
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].ProductID == productID {
			r := m.rows[i]
			out = append(out, &r)
		}
	}
	return out, nil
}

type memArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	failing bool
}

func (m *memArchive) ListObjects(_ context.Context, _ string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (m *memArchive) GetObject(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[key], nil
}

func (m *memArchive) DownloadObject(_ context.Context, _, _ string) error {
	return nil
}

func (m *memArchive) UploadObject(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return context.DeadlineExceeded
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return nil
}

type stubGenerator struct {
	prompt string
	answer string
	err    error
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.answer, g.err
}
