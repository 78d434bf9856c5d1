package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ingestibleExtensions are the report types the engine knows how to parse.
var ingestibleExtensions = map[string]struct{}{
	".pdf":  {},
	".xls":  {},
	".xlsx": {},
	".xlsm": {},
}

// LocalStore implements ReportStore over a local drop directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the drop directory if needed and returns a store
// over it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// List returns the ingestible files in the drop directory. Subdirectories
// and unknown extensions are skipped.
func (s *LocalStore) List(_ context.Context) ([]ReportFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list reports directory: %w", err)
	}

	files := make([]ReportFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := ingestibleExtensions[ext]; !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat report %s: %w", entry.Name(), err)
		}
		files = append(files, ReportFile{
			Name:         entry.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}
	return files, nil
}

// Open returns a reader for one report. The name is flattened to its base so
// callers cannot escape the drop directory.
func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", name, err)
	}
	return f, nil
}

// ReadFile returns the full contents of one report.
func (s *LocalStore) ReadFile(ctx context.Context, name string) ([]byte, error) {
	f, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", name, err)
	}
	return raw, nil
}
