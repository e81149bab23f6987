package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhabuon/ToolTinhLai/internal/config"
	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/inventory"
)

func TestBuildPrompt(t *testing.T) {
	snap := Snapshot{
		Alerts: []domain.InventoryAlert{
			{Name: "Áo thun", Label: "HẾT HÀNG", StockQuantity: 0, AlertThreshold: 35, RunwayDays: 0},
			{Name: "Balo", Label: "SẮP HẾT", StockQuantity: 4, AlertThreshold: 5, RunwayDays: inventory.UnlimitedRunway},
		},
		Weeks: []domain.WeeklySummary{{
			WeeklyRecord: domain.WeeklyRecord{
				WeekStart: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
				Revenue:   14267984,
				AdSpend:   1426798,
				Profit:    3000000,
			},
			CIR: 0.1,
		}},
	}

	prompt := BuildPrompt("  Nên nhập thêm gì?  ", snap)

	assert.Contains(t, prompt, "Áo thun: HẾT HÀNG, stock 0, reorder point 35, 0 days of stock left")
	assert.Contains(t, prompt, "Balo: SẮP HẾT, stock 4, reorder point 5, no recent sales")
	assert.Contains(t, prompt, "week of 2024-03-04: revenue 14.267.984 ₫")
	assert.Contains(t, prompt, "CIR 10.0%")
	assert.Contains(t, prompt, "Question:\nNên nhập thêm gì?\n")
}

func TestBuildPromptEmptySnapshot(t *testing.T) {
	prompt := BuildPrompt("hello", Snapshot{})
	assert.Contains(t, prompt, "none, all products are above their reorder point")
	assert.Contains(t, prompt, "no weeks recorded yet")
}

func TestBuildPromptCapsWeeks(t *testing.T) {
	weeks := make([]domain.WeeklySummary, 12)
	for i := range weeks {
		weeks[i].WeekStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*i)
	}
	prompt := BuildPrompt("q", Snapshot{Weeks: weeks})
	assert.Contains(t, prompt, "week of 2024-02-19")
	assert.NotContains(t, prompt, "week of 2024-02-26")
}

func TestNewGeminiGeneratorDisabled(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), config.AdvisorConfig{APIKey: " "})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Restock "), genai.Text("Áo thun.")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}
	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Restock Áo thun.", text)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = responseText(nil)
	assert.Error(t, err)
}
