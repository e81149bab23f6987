// Package currency converts Vietnamese-locale money strings exported by
// seller tools into float amounts, and formats amounts back for display.
package currency

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize maps a raw cell value onto an amount of money. It never fails:
// anything it cannot interpret comes back as 0.
//
// Numeric inputs are returned unchanged. Text keeps only digits, '.' and ','
// and the separators are then resolved:
//
//   - both present: the one occurring last is the decimal point
//   - several '.': thousands separators
//   - a single '.': thousands separator when exactly three digits follow it,
//     otherwise a decimal point
//   - only ',': decimal point, every one of them, so repeated commas
//     leave an unparseable string and the result is 0
//
// Known limitation: "100.250" reads as 100250 although it could be 100.25.
// The three-digit rule is kept as is and no ambiguity signal is raised.
func Normalize(raw interface{}) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return NormalizeString(v.String())
	case string:
		return NormalizeString(v)
	case []byte:
		return NormalizeString(string(v))
	case fmt.Stringer:
		return NormalizeString(v.String())
	default:
		return NormalizeString(fmt.Sprint(v))
	}
}

// NormalizeString is Normalize for text input.
func NormalizeString(s string) float64 {
	clean := canonical(s)
	if clean == "" {
		return 0
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return f
}

// canonical rewrites s into a form strconv can parse, or returns "" when
// no digits survive.
func canonical(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		}
	}
	if !hasDigit {
		return ""
	}
	kept := b.String()

	lastDot := strings.LastIndex(kept, ".")
	lastComma := strings.LastIndex(kept, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 117.611,96
			return strings.Replace(strings.ReplaceAll(kept, ".", ""), ",", ".", 1)
		}
		// 117,611.96
		return strings.ReplaceAll(kept, ",", "")

	case lastDot >= 0:
		if strings.Count(kept, ".") > 1 {
			return strings.ReplaceAll(kept, ".", "")
		}
		if len(kept)-lastDot-1 == 3 {
			return strings.Replace(kept, ".", "", 1)
		}
		return kept

	case lastComma >= 0:
		// "1,234,567" becomes "1.234.567" and fails to parse.
		return strings.ReplaceAll(kept, ",", ".")
	}

	return kept
}
