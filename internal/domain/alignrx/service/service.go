// Package service orchestrates AlignRx report ingestion.
package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/remit-engine/internal/domain/alignrx"
	"github.com/FACorreiaa/remit-engine/internal/domain/alignrx/parser"
)

// ReportIndex is the sink for parsed AlignRx reports. ReportExists answers
// the composite duplicate key: same destination, same payment amount, pay
// date within the same day.
type ReportIndex interface {
	ReportExists(ctx context.Context, date, destination string, amount float64) (bool, error)
	Upload(ctx context.Context, docs []map[string]interface{}) error
}

// DuplicateError means a report with the same date, destination, and amount
// is already indexed.
type DuplicateError struct {
	Date        string
	Destination string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("report for %s on %s already ingested", e.Destination, e.Date)
}

// Service ingests AlignRx spreadsheet reports.
type Service struct {
	parser *parser.Parser
	index  ReportIndex
	logger *slog.Logger
}

func NewService(p *parser.Parser, index ReportIndex, logger *slog.Logger) *Service {
	return &Service{parser: p, index: index, logger: logger}
}

// IngestReport parses one spreadsheet and uploads it. The duplicate check is
// fail-open: these reports arrive rarely and a missed skip only re-indexes a
// report, so an unanswerable check logs a warning and proceeds rather than
// blocking the ingest.
func (s *Service) IngestReport(ctx context.Context, sourceFile string, raw []byte) (*alignrx.Report, error) {
	report, err := s.parser.Parse(bytes.NewReader(raw), sourceFile)
	if err != nil {
		return nil, err
	}
	report.ID = uuid.NewString()

	exists, err := s.index.ReportExists(ctx, report.Date, report.Destination, report.PaymentAmount.InexactFloat64())
	switch {
	case err != nil:
		s.logger.Warn("report duplicate check failed, ingesting anyway",
			slog.String("file", sourceFile),
			slog.Any("error", err),
		)
	case exists:
		return nil, &DuplicateError{Date: report.Date, Destination: report.Destination}
	}

	if err := s.index.Upload(ctx, []map[string]interface{}{report.Doc()}); err != nil {
		return nil, fmt.Errorf("report index upload: %w", err)
	}

	s.logger.Info("ingested alignrx report",
		slog.String("file", sourceFile),
		slog.String("date", report.Date),
		slog.String("destination", report.Destination),
		slog.Int("central_payments", len(report.CentralPayments)),
	)
	return report, nil
}
