package report

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeHeader folds case, composes Vietnamese diacritics and collapses
// whitespace so "Tổng  Doanh thu " and "tổng doanh thu" compare equal.
func normalizeHeader(name string) string {
	name = norm.NFC.String(strings.ToLower(name))
	return strings.Join(strings.Fields(name), " ")
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = normalizeHeader(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// selectColumn prefers an exact match against keywords, in keyword order,
// then the first header containing a keyword and none of the exclusions.
func selectColumn(headers, keywords, exclusions []string) (int, bool) {
	keywords = normalizeTerms(keywords)
	exclusions = normalizeTerms(exclusions)

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	for _, kw := range keywords {
		for i, h := range normalized {
			if h == kw {
				return i, true
			}
		}
	}

	for i, h := range normalized {
		if h == "" || containsAny(h, exclusions) {
			continue
		}
		if containsAny(h, keywords) {
			return i, true
		}
	}
	return -1, false
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// presentColumns lists the non-blank headers of a row for diagnostics.
func presentColumns(headers []string) []string {
	var out []string
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
