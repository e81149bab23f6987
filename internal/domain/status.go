package domain

import (
	"strings"

	"github.com/nhabuon/ToolTinhLai/internal/inventory"
)

var severityLabels = map[inventory.Severity]string{
	inventory.SeverityOutOfStock: "HẾT HÀNG",
	inventory.SeverityLowStock:   "SẮP HẾT",
	inventory.SeverityNone:       "ĐỦ HÀNG",
}

var severityCodes = map[string]inventory.Severity{
	"out_of_stock": inventory.SeverityOutOfStock,
	"low_stock":    inventory.SeverityLowStock,
	"ok":           inventory.SeverityNone,
}

// SeverityLabel returns the label shown to the shop operator.
func SeverityLabel(s inventory.Severity) string {
	if label, ok := severityLabels[s]; ok {
		return label
	}
	return "UNKNOWN"
}

// ParseSeverity returns the severity for a code (case-insensitive).
func ParseSeverity(code string) (inventory.Severity, bool) {
	s, ok := severityCodes[strings.ToLower(strings.TrimSpace(code))]
	return s, ok
}
