// Package storage abstracts the drop directory that remittance report files
// arrive in, so the sync loop does not care whether reports land on a local
// disk or a mounted share.
package storage

import (
	"context"
	"io"
	"time"
)

// ReportFile is one report in the drop directory. Size and LastModified feed
// the change detection in the ingestion registry.
type ReportFile struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ReportStore lists and reads incoming report files.
type ReportStore interface {
	// List returns every ingestible report currently in the store.
	List(ctx context.Context) ([]ReportFile, error)

	// Open returns a reader for one report (for streaming processing).
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// ReadFile returns the full contents of one report.
	ReadFile(ctx context.Context, name string) ([]byte, error)
}
