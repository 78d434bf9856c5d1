package ingest

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/remit-engine/internal/domain/alignrx"
	alignrxsvc "github.com/FACorreiaa/remit-engine/internal/domain/alignrx/service"
	edisvc "github.com/FACorreiaa/remit-engine/internal/domain/edi/service"
	"github.com/FACorreiaa/remit-engine/pkg/storage"
)

// EDIIngester ingests one EDI report file.
type EDIIngester interface {
	IngestFile(ctx context.Context, fileName string, raw []byte) (*edisvc.IngestSummary, error)
}

// ReportIngester ingests one AlignRx spreadsheet.
type ReportIngester interface {
	IngestReport(ctx context.Context, sourceFile string, raw []byte) (*alignrx.Report, error)
}

// SyncSummary tallies one sweep of the drop directory.
type SyncSummary struct {
	Processed    int
	Skipped      int
	Failed       int
	Transactions int
}

// Syncer sweeps the report store and ingests what the registry has not seen.
type Syncer struct {
	store    storage.ReportStore
	edi      EDIIngester
	alignrx  ReportIngester
	registry *Registry
	logger   *slog.Logger
}

func NewSyncer(store storage.ReportStore, edi EDIIngester, alignrx ReportIngester, registry *Registry, logger *slog.Logger) *Syncer {
	return &Syncer{
		store:    store,
		edi:      edi,
		alignrx:  alignrx,
		registry: registry,
		logger:   logger,
	}
}

// Sync processes every new or changed file in the store. Duplicate results
// are recorded as processed so the file is not retried every sweep; other
// failures are logged and left unrecorded for the next run. The registry is
// saved once at the end of the sweep.
func (s *Syncer) Sync(ctx context.Context) (*SyncSummary, error) {
	files, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &SyncSummary{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !s.registry.Changed(file.Name, file.Size, file.LastModified) {
			summary.Skipped++
			continue
		}

		count, err := s.ingestOne(ctx, file)
		switch {
		case err == nil:
			s.registry.Record(file.Name, file.Size, file.LastModified, count)
			summary.Processed++
			summary.Transactions += count
		case isDuplicate(err):
			s.logger.Info("report already ingested, recording as processed",
				slog.String("file", file.Name),
			)
			s.registry.Record(file.Name, file.Size, file.LastModified, 0)
			summary.Skipped++
		default:
			s.logger.Error("report ingest failed",
				slog.String("file", file.Name),
				slog.Any("error", err),
			)
			summary.Failed++
		}
	}

	if err := s.registry.Save(); err != nil {
		return summary, err
	}
	s.logger.Info("sync complete",
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.Int("transactions", summary.Transactions),
	)
	return summary, nil
}

func (s *Syncer) ingestOne(ctx context.Context, file storage.ReportFile) (int, error) {
	raw, err := s.store.ReadFile(ctx, file.Name)
	if err != nil {
		return 0, err
	}

	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".pdf":
		res, err := s.edi.IngestFile(ctx, file.Name, raw)
		if err != nil {
			return 0, err
		}
		return res.TransactionCount, nil
	default:
		report, err := s.alignrx.IngestReport(ctx, file.Name, raw)
		if err != nil {
			return 0, err
		}
		return len(report.CentralPayments), nil
	}
}

func isDuplicate(err error) bool {
	var ediDup *edisvc.DuplicateError
	var reportDup *alignrxsvc.DuplicateError
	return errors.As(err, &ediDup) || errors.As(err, &reportDup)
}
