package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatVND renders v with '.' as thousands separator and ',' as decimal
// separator, e.g. 1234567.5 with one decimal becomes "1.234.567,5".
func FormatVND(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}

	d := decimal.NewFromFloat(v).Round(int32(decimals))
	neg := d.IsNegative()
	s := d.Abs().StringFixed(int32(decimals))

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	out := groupThousands(intPart)
	if fracPart != "" {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatVNDSuffix is FormatVND with no decimals followed by the currency sign.
func FormatVNDSuffix(v float64) string {
	return FormatVND(v, 0) + " ₫"
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
