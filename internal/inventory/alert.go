package inventory

// Severity classifies a stock level against its alert threshold.
type Severity string

const (
	SeverityNone       Severity = "ok"
	SeverityLowStock   Severity = "low_stock"
	SeverityOutOfStock Severity = "out_of_stock"
)

// Evaluate flags stock at or below threshold. Empty stock is always the more
// severe category, whatever the threshold.
func Evaluate(stock, threshold int) Severity {
	switch {
	case stock <= 0:
		return SeverityOutOfStock
	case stock <= threshold:
		return SeverityLowStock
	default:
		return SeverityNone
	}
}

// Critical reports whether s needs attention.
func (s Severity) Critical() bool {
	return s == SeverityLowStock || s == SeverityOutOfStock
}

// Rank orders severities for display, most severe first.
func (s Severity) Rank() int {
	switch s {
	case SeverityOutOfStock:
		return 0
	case SeverityLowStock:
		return 1
	default:
		return 2
	}
}

// Advice is the operator hint shown next to an alert.
func (s Severity) Advice() string {
	switch s {
	case SeverityOutOfStock:
		return "Out of stock: pause ads for this product and restock now"
	case SeverityLowStock:
		return "Running low: place a replenishment order"
	default:
		return ""
	}
}
