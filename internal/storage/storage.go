package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the S3-compatible operations used to archive
// uploaded reports and to read them back for backfills.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

const ReportsPrefix = "reports/"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ArchiveKey names the object a report uploaded for week is stored under:
// reports/<week>/<uuid>-<name>.
func ArchiveKey(week time.Time, name string) string {
	base := strings.Trim(unsafeKeyChars.ReplaceAllString(filepath.Base(name), "_"), "_")
	if base == "" || base == "." {
		base = "report"
	}
	return fmt.Sprintf("%s%s/%s-%s", ReportsPrefix, week.Format("2006-01-02"), uuid.NewString(), base)
}

// BaseName strips the archive prefix and uuid from a key produced by
// ArchiveKey, giving back the sanitized upload name.
func BaseName(key string) string {
	name := filepath.Base(key)
	if len(name) > 37 && name[36] == '-' {
		if _, err := uuid.Parse(name[:36]); err == nil {
			return name[37:]
		}
	}
	return name
}
