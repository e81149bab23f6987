package currency

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStrings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"dot thousands", "14.267.984", 14267984},
		{"dot thousands comma decimal", "117.611,96", 117611.96},
		{"comma decimal", "123,45", 123.45},
		{"short dot decimal", "12.5", 12.5},
		{"single dot three digits", "100.250", 100250},
		{"comma thousands dot decimal", "1,234,567.89", 1234567.89},
		{"multiple commas are not thousands", "1,234,567", 0},
		{"currency symbols", "₫ 1.500.000 đ", 1500000},
		{"plain digits", "42", 42},
		{"empty", "", 0},
		{"no digits", "N/A", 0},
		{"separators only", ".,.", 0},
		{"trailing dot", "15.", 15},
		{"two decimals dot", "99.99", 99.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Normalize(tt.in), 1e-9)
		})
	}
}

func TestNormalizeNumericPassThrough(t *testing.T) {
	assert.Equal(t, 1500000.0, Normalize(1500000.0))
	assert.Equal(t, 12.5, Normalize(float32(12.5)))
	assert.Equal(t, 42.0, Normalize(42))
	assert.Equal(t, 7.0, Normalize(int64(7)))
	assert.Equal(t, 3.0, Normalize(uint8(3)))
	assert.Equal(t, 19.99, Normalize(decimal.RequireFromString("19.99")))
	assert.Equal(t, 250.0, Normalize(json.Number("250")))
}

func TestNormalizeNilAndUnknown(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(nil))
	assert.Equal(t, 0.0, Normalize(struct{}{}))
	assert.Equal(t, 0.0, Normalize([]byte("abc")))
	assert.Equal(t, 1234.0, Normalize([]byte("1.234")))
}

func TestNormalizeNeverNegative(t *testing.T) {
	// the minus sign is stripped with the other non-numeric characters
	assert.Equal(t, 500.0, Normalize("-500"))
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "0", FormatVND(0, 0))
	assert.Equal(t, "999", FormatVND(999, 0))
	assert.Equal(t, "1.000", FormatVND(1000, 0))
	assert.Equal(t, "14.267.984", FormatVND(14267984, 0))
	assert.Equal(t, "117.611,96", FormatVND(117611.96, 2))
	assert.Equal(t, "-1.234.567,5", FormatVND(-1234567.5, 1))
	assert.Equal(t, "1.501", FormatVND(1500.6, 0))
	assert.Equal(t, "250.000 ₫", FormatVNDSuffix(250000))
}

func TestFormatRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 12.5, 117611.96, 14267984} {
		assert.InDelta(t, v, Normalize(FormatVND(v, 2)), 1e-9)
	}
}
