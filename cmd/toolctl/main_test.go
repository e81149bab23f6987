package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nhabuon/ToolTinhLai/internal/config"
	"github.com/nhabuon/ToolTinhLai/internal/storage"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "toolctl")
	if err != nil {
		panic(err)
	}
	os.Setenv("APP_UPLOAD_DIR", filepath.Join(dir, "uploads"))
	os.Setenv("APP_DATA_DIR", filepath.Join(dir, "output"))
	os.Setenv("DB_SQLITE_PATH", filepath.Join(dir, "shop.db"))

	cli.OsExiter = func(int) {}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"toolctl"}, args...))
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	out, err := run(t, "normalize", "14.267.984", "1.234,5", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "14267984")
	assert.Contains(t, out, "1234.5")
	assert.Contains(t, out, "1.234,50")

	_, err = run(t, "normalize")
	assert.Error(t, err)
}

func TestRopCommand(t *testing.T) {
	out, err := run(t, "rop", "--daily-sales", "5", "--lead-time", "5", "--safety-stock", "10", "--stock", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "reorder point: 35")
	assert.Contains(t, out, "status: SẮP HẾT")
	assert.Contains(t, out, "days of stock left: 4")

	out, err = run(t, "rop", "--daily-sales", "2", "--lead-time", "3")
	require.NoError(t, err)
	assert.Equal(t, "reorder point: 6\n", out)

	_, err = run(t, "rop", "--daily-sales", "2", "--lead-time", "0")
	assert.Error(t, err)
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ads.csv")
	require.NoError(t, os.WriteFile(path, []byte("Tên,Chi phí,Chi phí mỗi lượt nhấp\nX,\"1.000\",50\nY,\"2.500\",70\n"), 0o644))

	out, err := run(t, "extract", "--role", "ads", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 3500`)
	assert.Contains(t, out, `"column": "Chi phí"`)

	_, err = run(t, "extract", "--role", "profit", path)
	assert.Error(t, err)

	_, err = run(t, "extract", "--role", "revenue", path)
	assert.Error(t, err, "no revenue column")
}

func TestBackfillCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20240304_doanh_thu.csv"), []byte("Doanh thu\n1000000\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20240304_ads.csv"), []byte("Chi phí\n100000\n"), 0o644))

	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	out, err := run(t, "backfill", "--db-path", dbPath, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-04")
	assert.Contains(t, out, "1.000.000")
	assert.Contains(t, out, "10.0%")

	out, err = run(t, "migrate", "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite3")
}

type memArchive struct {
	objects map[string][]byte
}

func (m *memArchive) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

func (m *memArchive) GetObject(_ context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *memArchive) DownloadObject(_ context.Context, key, destPath string) error {
	data, ok := m.objects[key]
	if !ok {
		return os.ErrNotExist
	}
	return os.WriteFile(destPath, data, 0o644)
}

func (m *memArchive) UploadObject(_ context.Context, key string, data []byte) error {
	m.objects[key] = data
	return nil
}

func useArchive(t *testing.T, store storage.ObjectStorage) {
	t.Helper()
	prev := openArchive
	openArchive = func(context.Context, config.StorageConfig) (storage.ObjectStorage, error) {
		return store, nil
	}
	t.Cleanup(func() { openArchive = prev })
}

func TestBackfillArchiveCommand(t *testing.T) {
	week := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	store := &memArchive{objects: map[string][]byte{
		storage.ArchiveKey(week, "doanh_thu.csv"): []byte("Doanh thu\n2.000.000,50\n"),
		storage.ArchiveKey(week, "ads.csv"):       []byte("Chi phí\n300000\n"),
	}}
	useArchive(t, store)

	out, err := run(t, "backfill", "--db-path", filepath.Join(t.TempDir(), "ledger.db"), "--archive")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-11")
	assert.Contains(t, out, "2.000.001")
	assert.Contains(t, out, "15.0%")

	dir := filepath.Join(t.TempDir(), "copy")
	out, err = run(t, "backfill", "--db-path", filepath.Join(t.TempDir(), "ledger.db"), "--archive", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "20240311_ads.csv")
	assert.FileExists(t, filepath.Join(dir, "20240311_doanh_thu.csv"))

	_, err = run(t, "backfill", "--db-path", filepath.Join(t.TempDir(), "ledger.db"), "--archive", "--prefix", "other/")
	assert.Error(t, err, "nothing archived under the prefix")
}

func TestBackfillArchiveDisabled(t *testing.T) {
	useArchive(t, nil)
	_, err := run(t, "backfill", "--db-path", filepath.Join(t.TempDir(), "ledger.db"), "--archive")
	assert.Error(t, err)

	_, err = run(t, "backfill", "--db-path", filepath.Join(t.TempDir(), "ledger.db"))
	assert.Error(t, err)
}
