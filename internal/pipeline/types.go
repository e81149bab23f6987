package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/report"
)

// FileRef identifies one report file inside a Source. Name is the display
// name used for week and role detection; ID is whatever the source needs to
// read it back (a path, an object key, a Drive file id).
type FileRef struct {
	ID   string
	Name string
}

// Source is a place report exports can be listed and read from.
type Source interface {
	Describe() string
	List(ctx context.Context) ([]FileRef, error)
	Read(ctx context.Context, ref FileRef) ([]byte, error)
}

// Recorder persists extracted weekly totals. A nil amount means the file was
// missing or unusable and the stored value must be kept.
type Recorder interface {
	RecordTotals(ctx context.Context, week time.Time, revenue, adSpend *float64) (*domain.WeeklyRecord, error)
}

type Config struct {
	WorkerCount int
}

func DefaultConfig() Config {
	return Config{WorkerCount: 4}
}

// Batch is the pair of reports exported for one week.
type Batch struct {
	Week    time.Time
	Revenue *FileRef
	Ads     *FileRef
}

var (
	weekPrefix = regexp.MustCompile(`^(\d{8})_`)

	reportExtensions = map[string]bool{
		".csv": true, ".tsv": true, ".txt": true,
		".xlsx": true, ".xlsm": true,
	}

	adsMarkers = []string{"ads", "quang-cao", "quangcao", "quang_cao"}
)

// IsReportFile reports whether name has an extension the extractor reads.
func IsReportFile(name string) bool {
	return reportExtensions[strings.ToLower(filepath.Ext(name))]
}

// WeekOf parses the YYYYMMDD_ prefix of an export name and returns the
// Monday of that week.
func WeekOf(name string) (time.Time, error) {
	m := weekPrefix.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return time.Time{}, fmt.Errorf("file %q has no YYYYMMDD_ date prefix", name)
	}
	t, err := time.Parse("20060102", m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("file %q has an invalid date prefix: %w", name, err)
	}
	return domain.WeekStart(t), nil
}

// RoleOf classifies an export by name: ads exports mention ads or quảng cáo,
// everything else is a revenue report.
func RoleOf(name string) report.Role {
	lower := strings.ToLower(filepath.Base(name))
	for _, marker := range adsMarkers {
		if strings.Contains(lower, marker) {
			return report.RoleAds
		}
	}
	return report.RoleRevenue
}

// GroupByWeek pairs files by week. Files without a date prefix or with an
// unknown extension are skipped, as is a second file for the same week and
// role; the skipped names are returned with the reason.
func GroupByWeek(files []FileRef) ([]Batch, []string) {
	byWeek := make(map[time.Time]*Batch)
	var skipped []string

	sorted := append([]FileRef(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for i := range sorted {
		f := sorted[i]
		if !IsReportFile(f.Name) {
			skipped = append(skipped, fmt.Sprintf("%s: not a report file", f.Name))
			continue
		}
		week, err := WeekOf(f.Name)
		if err != nil {
			skipped = append(skipped, err.Error())
			continue
		}

		b, ok := byWeek[week]
		if !ok {
			b = &Batch{Week: week}
			byWeek[week] = b
		}

		slot := &b.Revenue
		if RoleOf(f.Name) == report.RoleAds {
			slot = &b.Ads
		}
		if *slot != nil {
			skipped = append(skipped, fmt.Sprintf("%s: week %s already has %s", f.Name, week.Format(domain.WeekLayout), (*slot).Name))
			continue
		}
		*slot = &f
	}

	batches := make([]Batch, 0, len(byWeek))
	for _, b := range byWeek {
		batches = append(batches, *b)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Week.Before(batches[j].Week) })
	return batches, skipped
}
