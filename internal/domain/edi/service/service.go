// Package service orchestrates EDI report ingestion: text extraction,
// transaction parsing, duplicate checks, and the dual-index upload.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/FACorreiaa/remit-engine/internal/domain/edi"
	"github.com/FACorreiaa/remit-engine/internal/domain/edi/extractor"
	"github.com/FACorreiaa/remit-engine/internal/domain/edi/pdftext"
)

// TransactionIndex is the master sink holding every transaction.
type TransactionIndex interface {
	FileExists(ctx context.Context, fileName string) (bool, error)
	Count(ctx context.Context) (uint64, error)
	Upload(ctx context.Context, docs []map[string]interface{}) error
}

// FilteredIndex is the narrow sink holding only allow-listed transactions.
// Its duplicate check is per trace number and amount because the same trace
// can legitimately appear in more than one report file.
type FilteredIndex interface {
	TraceExists(ctx context.Context, traceNumber string, amount float64) (bool, error)
	Count(ctx context.Context) (uint64, error)
	Upload(ctx context.Context, docs []map[string]interface{}) error
}

// TextExtractor turns raw report bytes into plain text. Injectable so tests
// can feed fixture text without real PDF files.
type TextExtractor func(raw []byte, logger *slog.Logger) string

// IngestSummary describes what one ingested file produced.
type IngestSummary struct {
	FileName         string
	TransactionCount int
	FilteredCount    int
	FilteredSkipped  bool
}

// Service ingests EDI remittance report files.
type Service struct {
	extractor *extractor.Extractor
	master    TransactionIndex
	filtered  FilteredIndex
	extract   TextExtractor
	logger    *slog.Logger
}

func NewService(ex *extractor.Extractor, master TransactionIndex, filtered FilteredIndex, logger *slog.Logger) *Service {
	return &Service{
		extractor: ex,
		master:    master,
		filtered:  filtered,
		extract:   pdftext.Extract,
		logger:    logger,
	}
}

// WithTextExtractor overrides the PDF text extraction step.
func (s *Service) WithTextExtractor(fn TextExtractor) *Service {
	s.extract = fn
	return s
}

// IngestFile parses one report and uploads its transactions. The file-level
// duplicate check is fail-closed: a check error aborts the ingest rather
// than risking double counting. The trace-level check on the filtered subset
// only withholds the narrow upload; the master upload stands either way.
func (s *Service) IngestFile(ctx context.Context, fileName string, raw []byte) (*IngestSummary, error) {
	exists, err := s.master.FileExists(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("duplicate check for %s: %w", fileName, err)
	}
	if exists {
		return nil, &DuplicateError{FileName: fileName}
	}

	text := s.extract(raw, s.logger)
	res := s.extractor.Extract(text, fileName)
	if len(res.Transactions) == 0 {
		return nil, &ValidationError{FileName: fileName, Reason: "no transactions found"}
	}

	if err := s.uploadMaster(ctx, res.Transactions); err != nil {
		return nil, err
	}
	summary := &IngestSummary{
		FileName:         fileName,
		TransactionCount: len(res.Transactions),
	}

	if len(res.Filtered) > 0 {
		uploaded, err := s.uploadFiltered(ctx, fileName, res.Filtered)
		if err != nil {
			return nil, err
		}
		summary.FilteredCount = uploaded
		summary.FilteredSkipped = uploaded == 0
	}

	s.logger.Info("ingested report",
		slog.String("file", fileName),
		slog.Int("transactions", summary.TransactionCount),
		slog.Int("filtered", summary.FilteredCount),
	)
	return summary, nil
}

func (s *Service) uploadMaster(ctx context.Context, transactions []edi.Transaction) error {
	count, err := s.master.Count(ctx)
	if err != nil {
		return fmt.Errorf("master index count: %w", err)
	}
	docs := make([]map[string]interface{}, 0, len(transactions))
	for i, tx := range transactions {
		docs = append(docs, tx.Doc(strconv.FormatUint(count+uint64(i)+1, 10)))
	}
	if err := s.master.Upload(ctx, docs); err != nil {
		return fmt.Errorf("master index upload: %w", err)
	}
	return nil
}

// uploadFiltered uploads the allow-listed subset unless any of its traces is
// already present. Check errors still propagate; only a confirmed duplicate
// downgrades to a skip.
func (s *Service) uploadFiltered(ctx context.Context, fileName string, filtered []edi.Transaction) (int, error) {
	for _, tx := range filtered {
		exists, err := s.filtered.TraceExists(ctx, tx.TraceNumber, tx.Amount.InexactFloat64())
		if err != nil {
			return 0, fmt.Errorf("trace duplicate check for %s: %w", tx.TraceNumber, err)
		}
		if exists {
			s.logger.Warn("skipping filtered upload, trace already indexed",
				slog.String("file", fileName),
				slog.String("trace_number", tx.TraceNumber),
			)
			return 0, nil
		}
	}

	count, err := s.filtered.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("filtered index count: %w", err)
	}
	docs := make([]map[string]interface{}, 0, len(filtered))
	for i, tx := range filtered {
		docs = append(docs, tx.FilteredDoc(strconv.FormatUint(count+uint64(i)+1, 10)))
	}
	if err := s.filtered.Upload(ctx, docs); err != nil {
		return 0, fmt.Errorf("filtered index upload: %w", err)
	}
	return len(docs), nil
}
