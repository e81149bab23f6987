package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	formatSpreadsheet = "xlsx"
	formatDelimited   = "csv"

	sniffLines = 20

	// noDelimiter splits nothing: the file is read as one column.
	noDelimiter = '\x1f'
)

var (
	errEmpty     = errors.New("file is empty")
	errNotText   = errors.New("file is not delimited text")
	zipMagic     = []byte("PK\x03\x04")
	legacyXLSTag = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// table is a decoded file: rows of raw cell strings plus, for spreadsheets,
// the cell types needed to tell a stored number from a formatted string.
type table struct {
	format string
	rows   [][]string

	book  *excelize.File
	sheet string
}

func (t *table) Close() {
	if t.book != nil {
		_ = t.book.Close()
	}
}

// value returns the cell at (row, col) as float64 when the spreadsheet stores
// it as a number, otherwise as its string. Missing cells yield nil.
func (t *table) value(row, col int) interface{} {
	if row >= len(t.rows) || col >= len(t.rows[row]) {
		return nil
	}
	raw := t.rows[row][col]
	if t.book == nil {
		return raw
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	typ, err := t.book.GetCellType(t.sheet, axis)
	if err != nil {
		return raw
	}
	if typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return f
		}
	}
	return raw
}

func (t *table) text(row, col int) string {
	if row >= len(t.rows) || col >= len(t.rows[row]) {
		return ""
	}
	return t.rows[row][col]
}

func isSpreadsheetName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	}
	return false
}

// decodeTable tries the spreadsheet reader first when the name or content
// says so, then falls back to delimited text. hint tells the delimited reader
// which line should carry the header.
func decodeTable(name string, data []byte, hint headerHint) (*table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmpty
	}

	zipped := bytes.HasPrefix(data, zipMagic)
	if isSpreadsheetName(name) || zipped {
		t, err := readSpreadsheet(data)
		if err == nil {
			return t, nil
		}
		if zipped {
			return nil, fmt.Errorf("failed to open spreadsheet %s: %w", name, err)
		}
	}
	if bytes.HasPrefix(data, legacyXLSTag) {
		return nil, fmt.Errorf("%s is a legacy .xls workbook, re-export it as .xlsx or .csv", name)
	}

	return readDelimited(data, hint)
}

func readSpreadsheet(data []byte) (*table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}

	return &table{format: formatSpreadsheet, rows: rows, book: f, sheet: sheet}, nil
}

func readDelimited(data []byte, hint headerHint) (*table, error) {
	// Handles a UTF-8 BOM and UTF-16 exports that carry one; anything else is
	// read as UTF-8.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
	if err != nil {
		return nil, fmt.Errorf("failed to decode text: %w", err)
	}
	if bytes.IndexByte(text, 0) >= 0 {
		return nil, errNotText
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = sniffDelimiter(text, hint)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited text: %w", err)
	}
	if len(rows) == 0 {
		return nil, errEmpty
	}
	return &table{format: formatDelimited, rows: rows}, nil
}

// headerHint identifies the header line of a delimited file before it is
// split into cells.
type headerHint struct {
	preferred int
	keywords  []string
}

func (h headerHint) matches(line string) bool {
	terms := normalizeTerms(h.keywords)
	return len(terms) > 0 && containsAny(normalizeHeader(line), terms)
}

type sniffedLine struct {
	text   string
	counts map[rune]int
}

// splitLines cuts text into at most limit non-blank records, counting the
// candidate delimiters that fall outside quotes.
func splitLines(text []byte, limit int) []sniffedLine {
	var (
		lines    []sniffedLine
		buf      strings.Builder
		counts   = map[rune]int{}
		inQuotes bool
	)
	flush := func() {
		if strings.TrimRight(buf.String(), "\r") != "" {
			lines = append(lines, sniffedLine{text: buf.String(), counts: counts})
		}
		buf.Reset()
		counts = map[rune]int{}
	}

	for _, r := range string(text) {
		if len(lines) >= limit {
			return lines
		}
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == '\n' && !inQuotes:
			flush()
			continue
		case !inQuotes && (r == ',' || r == ';' || r == '\t'):
			counts[r]++
		}
		buf.WriteRune(r)
	}
	if len(lines) < limit {
		flush()
	}
	return lines
}

// sniffDelimiter reads the delimiter off the header line: the preferred line
// when it matches a keyword, else the first line that does. The most frequent
// of ',', ';' and tab on that line wins. A header without any of them is a
// single column, so decimal commas in the values below stay intact. When no
// line matches, the line with the most delimiters decides.
func sniffDelimiter(text []byte, hint headerHint) rune {
	lines := splitLines(text, sniffLines)
	if len(lines) == 0 {
		return ','
	}

	header := -1
	if hint.preferred >= 0 && hint.preferred < len(lines) && hint.matches(lines[hint.preferred].text) {
		header = hint.preferred
	}
	for i := 0; header < 0 && i < len(lines); i++ {
		if hint.matches(lines[i].text) {
			header = i
		}
	}

	if header >= 0 {
		if d, n := mostFrequent(lines[header].counts); n > 0 {
			return d
		}
		return noDelimiter
	}

	best, bestCount := ',', 0
	for _, l := range lines {
		if d, n := mostFrequent(l.counts); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// mostFrequent prefers ',' then ';' then tab on ties.
func mostFrequent(counts map[rune]int) (rune, int) {
	best := ','
	for _, d := range []rune{';', '\t'} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best, counts[best]
}
