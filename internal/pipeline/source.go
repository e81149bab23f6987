package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nhabuon/ToolTinhLai/internal/storage"
)

// DirSource reads exports from a local directory, non-recursively.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Describe() string {
	return "directory " + s.dir
}

func (s *DirSource) List(_ context.Context) ([]FileRef, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var refs []FileRef
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		refs = append(refs, FileRef{ID: filepath.Join(s.dir, e.Name()), Name: e.Name()})
	}
	return refs, nil
}

func (s *DirSource) Read(_ context.Context, ref FileRef) ([]byte, error) {
	return os.ReadFile(ref.ID)
}

// ObjectSource reads archived exports back from object storage.
type ObjectSource struct {
	store  storage.ObjectStorage
	prefix string
}

func NewObjectSource(store storage.ObjectStorage, prefix string) *ObjectSource {
	if prefix == "" {
		prefix = storage.ReportsPrefix
	}
	return &ObjectSource{store: store, prefix: prefix}
}

func (s *ObjectSource) Describe() string {
	return "objects under " + s.prefix
}

func (s *ObjectSource) List(ctx context.Context) ([]FileRef, error) {
	if s.store == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	objects, err := s.store.ListObjects(ctx, s.prefix)
	if err != nil {
		return nil, err
	}

	refs := make([]FileRef, 0, len(objects))
	for _, o := range objects {
		refs = append(refs, FileRef{ID: o.Key, Name: archivedName(o.Key)})
	}
	return refs, nil
}

// archivedName restores a dated export name for keys written by
// storage.ArchiveKey, whose week lives in the directory part.
func archivedName(key string) string {
	name := storage.BaseName(key)
	if weekPrefix.MatchString(name) {
		return name
	}
	dir := filepath.Base(filepath.Dir(key))
	if t, err := time.Parse("2006-01-02", dir); err == nil {
		return t.Format("20060102") + "_" + name
	}
	return name
}

func (s *ObjectSource) Read(ctx context.Context, ref FileRef) ([]byte, error) {
	return s.store.GetObject(ctx, ref.ID)
}

// MirrorArchive downloads the archived report files under prefix into dir,
// named so that a directory backfill groups them by week again. When one
// week holds several uploads with the same name, the first key wins.
func MirrorArchive(ctx context.Context, store storage.ObjectStorage, prefix, dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	src := NewObjectSource(store, prefix)
	refs, err := src.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })

	seen := make(map[string]bool, len(refs))
	var paths []string
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !IsReportFile(ref.Name) || seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true

		localPath := filepath.Join(dir, ref.Name)
		if err := store.DownloadObject(ctx, ref.ID, localPath); err != nil {
			return nil, err
		}
		paths = append(paths, localPath)
	}

	log.Info().Str("prefix", src.prefix).Str("dir", dir).Int("files", len(paths)).Msg("pipeline: archive mirrored")
	return paths, nil
}
