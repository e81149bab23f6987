// Package advisor asks a language model for business advice grounded in the
// shop's current inventory and ledger.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nhabuon/ToolTinhLai/internal/currency"
	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/inventory"
)

// ErrDisabled is returned when no model credentials are configured.
var ErrDisabled = errors.New("advisor is not configured")

// DefaultPersona is used when no persona is configured.
const DefaultPersona = "You are an experienced Shopee Vietnam e-commerce consultant. " +
	"Answer in the language of the question, be concrete, and base every recommendation " +
	"on the shop data provided. Amounts are in VND."

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Snapshot is the shop state quoted in the prompt.
type Snapshot struct {
	Alerts []domain.InventoryAlert
	Weeks  []domain.WeeklySummary
}

const maxPromptWeeks = 8

// BuildPrompt embeds the alert board and the latest ledger weeks ahead of the
// operator's question.
func BuildPrompt(question string, snap Snapshot) string {
	var b strings.Builder

	b.WriteString("Shop data\n")

	b.WriteString("\nInventory alerts:\n")
	if len(snap.Alerts) == 0 {
		b.WriteString("- none, all products are above their reorder point\n")
	}
	for _, a := range snap.Alerts {
		runway := "no recent sales"
		if a.RunwayDays != inventory.UnlimitedRunway {
			runway = fmt.Sprintf("%d days of stock left", a.RunwayDays)
		}
		fmt.Fprintf(&b, "- %s: %s, stock %d, reorder point %d, %s\n",
			a.Name, a.Label, a.StockQuantity, a.AlertThreshold, runway)
	}

	b.WriteString("\nWeekly results (latest first):\n")
	if len(snap.Weeks) == 0 {
		b.WriteString("- no weeks recorded yet\n")
	}
	for i, w := range snap.Weeks {
		if i == maxPromptWeeks {
			break
		}
		fmt.Fprintf(&b, "- week of %s: revenue %s, ad spend %s, profit %s, CIR %.1f%%\n",
			w.WeekStart.Format("2006-01-02"),
			currency.FormatVNDSuffix(w.Revenue),
			currency.FormatVNDSuffix(w.AdSpend),
			currency.FormatVNDSuffix(w.Profit),
			w.CIR*100,
		)
	}

	b.WriteString("\nQuestion:\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n")
	return b.String()
}
