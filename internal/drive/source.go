package drive

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/nhabuon/ToolTinhLai/internal/pipeline"
)

var ErrFolderNotFound = errors.New("drive folder not found")

// Files is the part of the Drive API the importer needs.
type Files interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// FolderSource exposes the report exports of one Drive folder as a
// pipeline.Source.
type FolderSource struct {
	files    Files
	folderID string
}

func NewFolderSource(files Files, folderID string) *FolderSource {
	return &FolderSource{files: files, folderID: folderID}
}

func (s *FolderSource) Describe() string {
	return "drive folder " + s.folderID
}

func (s *FolderSource) List(ctx context.Context) ([]pipeline.FileRef, error) {
	files, err := s.files.ListFiles(ctx, s.folderID)
	if err != nil {
		return nil, err
	}

	refs := make([]pipeline.FileRef, 0, len(files))
	for _, f := range files {
		if f.IsFolder() {
			continue
		}
		refs = append(refs, pipeline.FileRef{ID: f.ID, Name: f.Name})
	}
	return refs, nil
}

func (s *FolderSource) Read(ctx context.Context, ref pipeline.FileRef) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.files.DownloadFile(ctx, ref.ID, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
