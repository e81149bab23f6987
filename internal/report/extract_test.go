package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	"github.com/nhabuon/ToolTinhLai/internal/config"
)

func newTestExtractor() *Extractor {
	return New(DefaultConfig())
}

func csvLines(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestExtractRevenueFirstRowTotal(t *testing.T) {
	data := csvLines(
		"Date,Total Sales Value,Orders",
		"01/01/2024-07/01/2024,14.267.984,120",
		"01/01/2024,5.000.000,40",
		"02/01/2024,4.267.984,35",
		"03/01/2024,5.000.000,45",
	)

	res := newTestExtractor().Extract("sales.csv", data, RoleRevenue)

	require.True(t, res.OK(), "diagnostic: %+v", res.Diagnostic)
	assert.Equal(t, 14267984.0, res.Total)
	assert.True(t, res.FirstRowTotal)
	assert.Equal(t, "Total Sales Value", res.Column)
	assert.Equal(t, 1, res.HeaderRow)
	assert.Equal(t, 4, res.Rows)
	require.Len(t, res.Log, 1)
	assert.Contains(t, res.Log[0], "14.267.984")
	assert.Contains(t, res.Log[0], "first row")
}

func TestExtractRevenueSumsWithoutAggregateRow(t *testing.T) {
	data := csvLines(
		"Date,Revenue",
		"01/01/2024,100",
		"02/01/2024,200",
		"03/01/2024,300",
	)

	res := newTestExtractor().Extract("sales.csv", data, RoleRevenue)

	require.True(t, res.OK())
	assert.Equal(t, 600.0, res.Total)
	assert.False(t, res.FirstRowTotal)
}

func TestExtractRevenueToleranceBoundary(t *testing.T) {
	// first row 110 is exactly 10% above the remaining 100
	data := csvLines("Revenue", "110", "60", "40")
	res := newTestExtractor().Extract("sales.csv", data, RoleRevenue)
	assert.Equal(t, 110.0, res.Total)
	assert.True(t, res.FirstRowTotal)

	data = csvLines("Revenue", "111", "60", "40")
	res = newTestExtractor().Extract("sales.csv", data, RoleRevenue)
	assert.Equal(t, 211.0, res.Total)
	assert.False(t, res.FirstRowTotal)
}

func TestExtractSingleRowRevenue(t *testing.T) {
	data := csvLines("Doanh thu", `"117.611,96"`)
	res := newTestExtractor().Extract("tuan.csv", data, RoleRevenue)
	require.True(t, res.OK())
	assert.InDelta(t, 117611.96, res.Total, 1e-9)
	assert.False(t, res.FirstRowTotal)
}

func TestExtractUnquotedDecimalCommas(t *testing.T) {
	res := newTestExtractor().Extract("tuan.csv", csvLines("Doanh thu", "1.000,50", "2.000,25"), RoleRevenue)
	require.True(t, res.OK(), "diagnostic: %+v", res.Diagnostic)
	assert.InDelta(t, 3000.75, res.Total, 1e-9)
	assert.Equal(t, 2, res.Rows)

	res = newTestExtractor().Extract("tuan.csv", csvLines("Doanh thu", "117.611,96"), RoleRevenue)
	require.True(t, res.OK())
	assert.InDelta(t, 117611.96, res.Total, 1e-9)
	assert.Contains(t, res.Log[0], "117.611,96")
}

func TestExtractMissingColumnDegrades(t *testing.T) {
	data := csvLines(
		"Date,Orders,Buyers",
		"01/01/2024,10,9",
	)

	var res Result
	require.NotPanics(t, func() {
		res = newTestExtractor().Extract("sales.csv", data, RoleRevenue)
	})

	assert.Equal(t, 0.0, res.Total)
	require.NotNil(t, res.Diagnostic)
	assert.Equal(t, DiagnosticMissingColumn, res.Diagnostic.Kind)
	assert.Equal(t, []string{"Date", "Orders", "Buyers"}, res.Columns)
	require.Len(t, res.Log, 1)
	assert.Contains(t, res.Log[0], "Date, Orders, Buyers")
}

func TestExtractAdsSkipsMetadataRows(t *testing.T) {
	data := csvLines(
		"Shop Name,my-shop",
		"Shop ID,12345",
		"Report,Shopee Ads",
		"Period,01/01/2024 - 07/01/2024",
		"Created,08/01/2024",
		"Currency,VND",
		"Type,All ads",
		"Ad Name,Impressions,Cost per Conversion,Direct ROAS,Expense (Cost)",
		`Ad A,1000,"2.500",3.1,300`,
		`Ad B,800,"2.100",2.2,100`,
		`Ad C,900,"1.900",4.0,200`,
	)

	res := newTestExtractor().Extract("ads.csv", data, RoleAds)

	require.True(t, res.OK(), "diagnostic: %+v", res.Diagnostic)
	assert.Equal(t, "Expense (Cost)", res.Column)
	assert.Equal(t, 8, res.HeaderRow)
	// ads reports always sum, even when the first row equals the rest
	assert.Equal(t, 600.0, res.Total)
	assert.False(t, res.FirstRowTotal)
}

func TestExtractAdsExactMatchWins(t *testing.T) {
	data := csvLines(
		"Keyword,Cost per Click,Cost",
		`shoes,"1.200","1.500.000"`,
		`bags,"900","2.000.000"`,
	)

	res := newTestExtractor().Extract("ads.csv", data, RoleAds)

	require.True(t, res.OK())
	assert.Equal(t, "Cost", res.Column)
	assert.Equal(t, 3500000.0, res.Total)
	assert.Equal(t, 1, res.HeaderRow)
}

func TestExtractAdsOnlyExcludedColumns(t *testing.T) {
	data := csvLines(
		"Keyword,Cost per Conversion,ROAS cost ratio",
		"shoes,100,2",
	)

	res := newTestExtractor().Extract("ads.csv", data, RoleAds)

	require.NotNil(t, res.Diagnostic)
	assert.Equal(t, DiagnosticMissingColumn, res.Diagnostic.Kind)
	assert.Equal(t, 0.0, res.Total)
}

func TestExtractSpreadsheetKeepsNumericCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetCellValue(sheet, "A1", "Order ID"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Revenue"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "SO-1"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 1234.567))
	require.NoError(t, f.SetCellValue(sheet, "A3", "SO-2"))
	require.NoError(t, f.SetCellValue(sheet, "B3", "117.611,96"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res := newTestExtractor().Extract("orders.xlsx", buf.Bytes(), RoleRevenue)

	require.True(t, res.OK(), "diagnostic: %+v", res.Diagnostic)
	assert.Equal(t, formatSpreadsheet, res.Format)
	assert.Equal(t, "Revenue", res.Column)
	assert.InDelta(t, 1234.567+117611.96, res.Total, 1e-6)
}

func TestExtractSpreadsheetHeaderBelowMetadata(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetCellValue(sheet, "A1", "Shopee Ads report"))
	require.NoError(t, f.SetCellValue(sheet, "A3", "Ad Name"))
	require.NoError(t, f.SetCellValue(sheet, "B3", "Chi phí"))
	require.NoError(t, f.SetCellValue(sheet, "A4", "Ad A"))
	require.NoError(t, f.SetCellValue(sheet, "B4", 150000))
	require.NoError(t, f.SetCellValue(sheet, "A5", "Ad B"))
	require.NoError(t, f.SetCellValue(sheet, "B5", 50000))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res := newTestExtractor().Extract("quang-cao.xlsx", buf.Bytes(), RoleAds)

	require.True(t, res.OK(), "diagnostic: %+v", res.Diagnostic)
	assert.Equal(t, 3, res.HeaderRow)
	assert.Equal(t, 200000.0, res.Total)
}

func TestExtractUnparseable(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		kind DiagnosticKind
	}{
		{"corrupt xlsx", "sales.xlsx", []byte("PK\x03\x04not really a zip"), DiagnosticUnparseable},
		{"legacy xls", "sales.xls", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, DiagnosticUnparseable},
		{"binary", "sales.csv", []byte{'a', 0, 'b', 0, '\n'}, DiagnosticUnparseable},
		{"empty", "sales.csv", nil, DiagnosticEmpty},
		{"whitespace", "sales.csv", []byte("  \n\n"), DiagnosticEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res Result
			require.NotPanics(t, func() {
				res = newTestExtractor().Extract(tt.file, tt.data, RoleRevenue)
			})
			assert.Equal(t, 0.0, res.Total)
			require.NotNil(t, res.Diagnostic)
			assert.Equal(t, tt.kind, res.Diagnostic.Kind)
			assert.Len(t, res.Log, 1)
		})
	}
}

func TestExtractHeaderWithoutRows(t *testing.T) {
	res := newTestExtractor().Extract("sales.csv", csvLines("Revenue,Date"), RoleRevenue)
	require.NotNil(t, res.Diagnostic)
	assert.Equal(t, DiagnosticEmpty, res.Diagnostic.Kind)
	assert.Equal(t, "Revenue", res.Column)
}

func TestExtractBOMAndSemicolon(t *testing.T) {
	data := []byte("\ufeffNgày;Doanh thu\n01/01;1.000.000\n02/01;\"2.500,50\"\n")

	res := newTestExtractor().Extract("doanhthu.csv", data, RoleRevenue)

	require.True(t, res.OK(), "diagnostic: %+v", res.Diagnostic)
	assert.Equal(t, "Doanh thu", res.Column)
	assert.InDelta(t, 1002500.50, res.Total, 1e-9)
}

func TestExtractUTF16WithBOM(t *testing.T) {
	plain := "Date\tTotal Amount\n01/01\t1.500\n02/01\t2.500\n"
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(plain))
	require.NoError(t, err)

	res := newTestExtractor().Extract("export.txt", encoded, RoleRevenue)

	require.True(t, res.OK(), "diagnostic: %+v", res.Diagnostic)
	assert.Equal(t, 4000.0, res.Total)
}

func TestExtractIsRepeatable(t *testing.T) {
	data := csvLines("Revenue", "10", "20")
	e := newTestExtractor()
	assert.Equal(t, e.Extract("a.csv", data, RoleRevenue), e.Extract("a.csv", data, RoleRevenue))
}

func TestExtractReader(t *testing.T) {
	res := newTestExtractor().ExtractReader("a.csv", bytes.NewReader(csvLines("Cost", "5", "7")), RoleAds)
	assert.Equal(t, 12.0, res.Total)
}

func TestCustomKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RevenueKeywords = []string{"gmv"}
	res := New(cfg).Extract("a.csv", csvLines("Day,GMV", "1,500", "2,700"), RoleRevenue)
	assert.Equal(t, 1200.0, res.Total)
}

func TestConfigFromSettings(t *testing.T) {
	settings := config.ExtractConfig{
		RevenueKeywords:   []string{"revenue"},
		AdsKeywords:       []string{"cost"},
		AdsSkipRows:       2,
		HeaderScanRows:    5,
		FirstRowTolerance: 0.2,
	}
	cfg := Config(settings)
	assert.Equal(t, 2, cfg.AdsSkipRows)
	assert.Equal(t, []string{"revenue"}, cfg.RevenueKeywords)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Revenue ")
	require.NoError(t, err)
	assert.Equal(t, RoleRevenue, r)

	r, err = ParseRole("ADS")
	require.NoError(t, err)
	assert.Equal(t, RoleAds, r)

	_, err = ParseRole("profit")
	assert.Error(t, err)
}
