// Package report pulls a single monetary total out of seller-exported
// revenue and advertising reports whose exact layout is not known up front.
package report

import (
	"fmt"
	"strings"
)

// Role tells the extractor which kind of report a file is.
type Role string

const (
	RoleRevenue Role = "revenue"
	RoleAds     Role = "ads"
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "revenue", "sales", "doanhthu":
		return RoleRevenue, nil
	case "ads", "ad", "advertising":
		return RoleAds, nil
	default:
		return "", fmt.Errorf("unknown report role %q", s)
	}
}

// Config holds the keyword tables and layout constants. Field order matches
// config.ExtractConfig so one converts directly into the other.
type Config struct {
	RevenueKeywords []string
	AdsKeywords     []string
	AdsExclusions   []string
	// AdsSkipRows is the number of metadata rows the ads export tool writes
	// above the header.
	AdsSkipRows int
	// HeaderScanRows bounds the search for a header when the expected row
	// does not match.
	HeaderScanRows    int
	FirstRowTolerance float64
}

func DefaultConfig() Config {
	return Config{
		RevenueKeywords: []string{"total sales value", "sales value", "total amount", "revenue", "doanh thu", "doanh số"},
		AdsKeywords:     []string{"cost", "chi phí"},
		AdsExclusions: []string{
			"conversion", "direct", "per-click", "per click", "roas",
			"chuyển đổi", "trực tiếp", "mỗi lượt nhấp",
		},
		AdsSkipRows:       7,
		HeaderScanRows:    15,
		FirstRowTolerance: 0.10,
	}
}

func (c Config) keywords(role Role) (keywords, exclusions []string) {
	if role == RoleAds {
		return c.AdsKeywords, c.AdsExclusions
	}
	return c.RevenueKeywords, nil
}
