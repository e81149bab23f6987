package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nhabuon/ToolTinhLai/internal/currency"
)

type DiagnosticKind string

const (
	DiagnosticUnparseable   DiagnosticKind = "unparseable"
	DiagnosticMissingColumn DiagnosticKind = "missing_column"
	DiagnosticEmpty         DiagnosticKind = "empty"
)

// Diagnostic explains why a file produced no usable total.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}

// Result is the outcome of extracting one file. A non-nil Diagnostic means
// Total is 0 and the operator should enter the figure by hand.
type Result struct {
	File   string  `json:"file"`
	Role   Role    `json:"role"`
	Total  float64 `json:"total"`
	Format string  `json:"format,omitempty"`
	// HeaderRow is the 1-based row holding the header, 0 when none was found.
	HeaderRow     int         `json:"header_row"`
	Column        string      `json:"column,omitempty"`
	Rows          int         `json:"rows"`
	FirstRowTotal bool        `json:"first_row_total"`
	Columns       []string    `json:"columns,omitempty"`
	Log           []string    `json:"log"`
	Diagnostic    *Diagnostic `json:"diagnostic,omitempty"`
}

func (r Result) OK() bool {
	return r.Diagnostic == nil
}

func (r *Result) fail(kind DiagnosticKind, msg string) {
	r.Total = 0
	r.FirstRowTotal = false
	r.Diagnostic = &Diagnostic{Kind: kind, Message: msg}
	r.Log = append(r.Log, fmt.Sprintf("%s report %s: %s", r.Role, r.File, msg))
}

type Extractor struct {
	cfg Config
}

func New(cfg Config) *Extractor {
	if cfg.HeaderScanRows <= 0 {
		cfg.HeaderScanRows = DefaultConfig().HeaderScanRows
	}
	if cfg.AdsSkipRows < 0 {
		cfg.AdsSkipRows = 0
	}
	if cfg.FirstRowTolerance < 0 {
		cfg.FirstRowTolerance = 0
	}
	return &Extractor{cfg: cfg}
}

func (e *Extractor) Config() Config {
	return e.cfg
}

// ExtractReader reads r fully and extracts it. A read error degrades like
// any other unparseable input.
func (e *Extractor) ExtractReader(name string, r io.Reader, role Role) Result {
	data, err := io.ReadAll(r)
	if err != nil {
		res := Result{File: name, Role: role}
		res.fail(DiagnosticUnparseable, fmt.Sprintf("failed to read upload: %v", err))
		return res
	}
	return e.Extract(name, data, role)
}

// Extract reduces the monetary column for role in the named file to a single
// total. It never panics and never returns an error: every failure is a zero
// total with a Diagnostic and a log line.
func (e *Extractor) Extract(name string, data []byte, role Role) (res Result) {
	res = Result{File: name, Role: role}

	defer func() {
		if r := recover(); r != nil {
			res.fail(DiagnosticUnparseable, fmt.Sprintf("unexpected failure while reading file: %v", r))
		}
	}()

	keywords, exclusions := e.cfg.keywords(role)
	hint := headerHint{preferred: e.delimitedHeader(role), keywords: keywords}

	t, err := decodeTable(name, data, hint)
	if err != nil {
		kind := DiagnosticUnparseable
		if errors.Is(err, errEmpty) {
			kind = DiagnosticEmpty
		}
		res.fail(kind, err.Error())
		return res
	}
	defer t.Close()
	res.Format = t.format

	header, col, ok := e.locateHeader(t, role, keywords, exclusions)
	if !ok {
		res.Columns = presentColumns(e.diagnosticHeader(t, role))
		res.fail(DiagnosticMissingColumn, fmt.Sprintf(
			"no column matching %s; columns present: [%s]",
			quoteList(keywords), strings.Join(res.Columns, ", "),
		))
		return res
	}

	res.HeaderRow = header + 1
	res.Column = strings.TrimSpace(t.text(header, col))

	values := collect(t, header, col)
	res.Rows = len(values)
	if len(values) == 0 {
		res.fail(DiagnosticEmpty, fmt.Sprintf("column %q has no data rows below header row %d", res.Column, res.HeaderRow))
		return res
	}

	total, firstRow := reduce(values, role, e.cfg.FirstRowTolerance)
	res.Total = total.InexactFloat64()
	res.FirstRowTotal = firstRow

	line := fmt.Sprintf("%s report %s: header row %d, column %q, %d rows, total %s",
		role, name, res.HeaderRow, res.Column, res.Rows, formatTotal(res.Total))
	if firstRow {
		line += " (first row used as period total)"
	}
	res.Log = append(res.Log, line)
	return res
}

// preferredHeader is the row the export tool is known to put the header on.
func (e *Extractor) preferredHeader(t *table, role Role) int {
	if t.format == formatDelimited {
		return e.delimitedHeader(role)
	}
	return 0
}

func (e *Extractor) delimitedHeader(role Role) int {
	if role == RoleAds {
		return e.cfg.AdsSkipRows
	}
	return 0
}

// locateHeader tries the preferred header row, then scans the first
// HeaderScanRows rows for one carrying a matching column.
func (e *Extractor) locateHeader(t *table, role Role, keywords, exclusions []string) (int, int, bool) {
	preferred := e.preferredHeader(t, role)
	if preferred < len(t.rows) {
		if col, ok := selectColumn(t.rows[preferred], keywords, exclusions); ok {
			return preferred, col, true
		}
	}

	limit := e.cfg.HeaderScanRows
	if preferred+1 > limit {
		limit = preferred + 1
	}
	if limit > len(t.rows) {
		limit = len(t.rows)
	}
	for r := 0; r < limit; r++ {
		if r == preferred {
			continue
		}
		if col, ok := selectColumn(t.rows[r], keywords, exclusions); ok {
			return r, col, true
		}
	}
	return -1, -1, false
}

// diagnosticHeader returns the row most likely to be the header, for the
// missing-column message.
func (e *Extractor) diagnosticHeader(t *table, role Role) []string {
	preferred := e.preferredHeader(t, role)
	if preferred < len(t.rows) && len(presentColumns(t.rows[preferred])) > 0 {
		return t.rows[preferred]
	}
	for r := 0; r < len(t.rows) && r < e.cfg.HeaderScanRows; r++ {
		if len(presentColumns(t.rows[r])) > 0 {
			return t.rows[r]
		}
	}
	return nil
}

// collect normalizes the non-blank cells of column col below header.
func collect(t *table, header, col int) []decimal.Decimal {
	var values []decimal.Decimal
	for r := header + 1; r < len(t.rows); r++ {
		v := t.value(r, col)
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		if v == nil {
			continue
		}
		values = append(values, decimal.NewFromFloat(currency.Normalize(v)))
	}
	return values
}

// reduce sums values. Revenue exports put a whole-period total in the first
// data row; when it is within tolerance of the remaining rows it is used
// instead of the sum.
func reduce(values []decimal.Decimal, role Role, tolerance float64) (decimal.Decimal, bool) {
	total := decimal.Sum(decimal.Zero, values...)
	if role != RoleRevenue || len(values) < 2 {
		return total, false
	}

	first := values[0]
	rest := total.Sub(first)
	if first.Sub(rest).Abs().LessThanOrEqual(rest.Abs().Mul(decimal.NewFromFloat(tolerance))) {
		return first, true
	}
	return total, false
}

func formatTotal(v float64) string {
	if v == math.Trunc(v) {
		return currency.FormatVND(v, 0)
	}
	return currency.FormatVND(v, 2)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
