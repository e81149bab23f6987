package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nhabuon/ToolTinhLai/internal/pipeline"
)

// MirrorOptions controls where a folder is copied to.
type MirrorOptions struct {
	FolderID    string
	DownloadDir string
}

// Mirror copies the report exports of a Drive folder to local disk so they
// can be re-run with a directory backfill later.
type Mirror struct {
	files Files
}

func NewMirror(files Files) *Mirror {
	return &Mirror{files: files}
}

// Download writes every report file of the folder into DownloadDir and
// returns the local paths. Spreadsheets are kept as they are.
func (m *Mirror) Download(ctx context.Context, opts MirrorOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := m.files.ListFiles(ctx, opts.FolderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if f.IsFolder() || !pipeline.IsReportFile(f.Name) {
			continue
		}

		localPath := filepath.Join(opts.DownloadDir, filepath.Base(f.Name))
		if err := m.downloadTo(ctx, f, localPath); err != nil {
			return nil, err
		}
		localPaths = append(localPaths, localPath)
	}

	return localPaths, nil
}

func (m *Mirror) downloadTo(ctx context.Context, f *File, localPath string) error {
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	if err := m.files.DownloadFile(ctx, f.ID, out); err != nil {
		out.Close()
		_ = os.Remove(localPath)
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	return out.Close()
}
