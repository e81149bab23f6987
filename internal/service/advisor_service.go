package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nhabuon/ToolTinhLai/internal/advisor"
)

const advisorWeeks = 8

type AdvisorService struct {
	generator advisor.Generator
	products  *ProductService
	ledger    *LedgerService
}

// NewAdvisorService accepts a nil generator; Ask then fails with
// advisor.ErrDisabled.
func NewAdvisorService(generator advisor.Generator, products *ProductService, ledger *LedgerService) *AdvisorService {
	return &AdvisorService{generator: generator, products: products, ledger: ledger}
}

func (s *AdvisorService) Enabled() bool {
	return s.generator != nil
}

// Ask answers question with the current alert board and recent weeks quoted
// in the prompt.
func (s *AdvisorService) Ask(ctx context.Context, question string) (string, error) {
	if s.generator == nil {
		return "", advisor.ErrDisabled
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	var snap advisor.Snapshot
	if s.products != nil {
		board, err := s.products.Alerts(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load alerts: %w", err)
		}
		snap.Alerts = board.Alerts
	}
	if s.ledger != nil {
		weeks, err := s.ledger.List(ctx, advisorWeeks)
		if err != nil {
			return "", fmt.Errorf("failed to load ledger: %w", err)
		}
		snap.Weeks = weeks
	}

	answer, err := s.generator.Generate(ctx, advisor.BuildPrompt(question, snap))
	if err != nil {
		return "", err
	}

	log.Info().Int("alerts", len(snap.Alerts)).Int("weeks", len(snap.Weeks)).Msg("advisor answered")
	return answer, nil
}
