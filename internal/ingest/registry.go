// Package ingest drives incremental ingestion of the report drop directory:
// a JSON registry remembers what was processed, and the syncer feeds anything
// new or changed to the right ingestion service.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ProcessedFileInfo records one processed report. Size and modification time
// are the change key: a file reappearing with either changed is reprocessed.
type ProcessedFileInfo struct {
	Filename         string    `json:"filename"`
	Size             int64     `json:"size"`
	LastModified     time.Time `json:"last_modified"`
	ProcessedAt      time.Time `json:"processed_at"`
	TransactionCount int       `json:"transaction_count"`
}

// Registry is the persistent set of processed reports, keyed by filename.
type Registry struct {
	path  string
	files map[string]ProcessedFileInfo
}

// LoadRegistry reads the registry file. A missing file yields an empty
// registry; a corrupt one is an error rather than a silent full re-ingest.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{path: path, files: make(map[string]ProcessedFileInfo)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &r.files); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return r, nil
}

// Changed reports whether the file is new or differs from its processed
// record.
func (r *Registry) Changed(name string, size int64, lastModified time.Time) bool {
	rec, ok := r.files[name]
	if !ok {
		return true
	}
	return rec.Size != size || !rec.LastModified.Equal(lastModified)
}

// Record marks a file as processed.
func (r *Registry) Record(name string, size int64, lastModified time.Time, transactionCount int) {
	r.files[name] = ProcessedFileInfo{
		Filename:         name,
		Size:             size,
		LastModified:     lastModified,
		ProcessedAt:      time.Now().UTC(),
		TransactionCount: transactionCount,
	}
}

// Len returns the number of recorded files.
func (r *Registry) Len() int {
	return len(r.files)
}

// Save writes the registry back to disk.
func (r *Registry) Save() error {
	data, err := json.MarshalIndent(r.files, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write registry %s: %w", r.path, err)
	}
	return nil
}
