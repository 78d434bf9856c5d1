package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/remit-engine/internal/domain/edi/extractor"
)

const reportText = `PAYMENT INFORMATION:
CREDIT: $1,234.56 EFFECTIVE DATE: 03/15/2025
INPUT FORMAT: ACHCCD+
ROUTING ID: 053000196
TRACE NUMBER: ABC123
RECEIVER: NC STATE TREASURER
ORIGINATOR: BCBS of NC
PAYMENT INFORMATION:
CREDIT: $99.00 EFFECTIVE DATE: 03/15/2025
INPUT FORMAT: ACHCCD+
ROUTING ID: 061000052
TRACE NUMBER: DEF456
RECEIVER: SOMEONE ELSE
ORIGINATOR: ANOTHER PAYER
`

type fakeMaster struct {
	existing  map[string]bool
	docs      []map[string]interface{}
	existsErr error
	uploadErr error
}

func (f *fakeMaster) FileExists(_ context.Context, fileName string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[fileName], nil
}

func (f *fakeMaster) Count(context.Context) (uint64, error) {
	return uint64(len(f.docs)), nil
}

func (f *fakeMaster) Upload(_ context.Context, docs []map[string]interface{}) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.docs = append(f.docs, docs...)
	return nil
}

type fakeFiltered struct {
	existingTraces map[string]bool
	docs           []map[string]interface{}
	existsErr      error
}

func (f *fakeFiltered) TraceExists(_ context.Context, traceNumber string, _ float64) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existingTraces[traceNumber], nil
}

func (f *fakeFiltered) Count(context.Context) (uint64, error) {
	return uint64(len(f.docs)), nil
}

func (f *fakeFiltered) Upload(_ context.Context, docs []map[string]interface{}) error {
	f.docs = append(f.docs, docs...)
	return nil
}

func newTestService(master *fakeMaster, filtered *fakeFiltered) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ex := extractor.New(extractor.DefaultAllowlist, logger)
	svc := NewService(ex, master, filtered, logger)
	return svc.WithTextExtractor(func(raw []byte, _ *slog.Logger) string {
		return string(raw)
	})
}

func TestIngestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads all transactions and the allow-listed subset", func(t *testing.T) {
		master := &fakeMaster{}
		filtered := &fakeFiltered{}

		summary, err := newTestService(master, filtered).IngestFile(ctx, "report.pdf", []byte(reportText))
		require.NoError(t, err)

		assert.Equal(t, 2, summary.TransactionCount)
		assert.Equal(t, 1, summary.FilteredCount)
		assert.False(t, summary.FilteredSkipped)

		require.Len(t, master.docs, 2)
		assert.Equal(t, "1", master.docs[0]["id"])
		assert.Equal(t, "2", master.docs[1]["id"])

		require.Len(t, filtered.docs, 1)
		assert.Equal(t, "ABC123", filtered.docs[0]["trace_number"])
	})

	t.Run("ids continue from the current document count", func(t *testing.T) {
		master := &fakeMaster{docs: make([]map[string]interface{}, 7)}

		_, err := newTestService(master, &fakeFiltered{}).IngestFile(ctx, "report.pdf", []byte(reportText))
		require.NoError(t, err)

		require.Len(t, master.docs, 9)
		assert.Equal(t, "8", master.docs[7]["id"])
		assert.Equal(t, "9", master.docs[8]["id"])
	})

	t.Run("already ingested file is a duplicate error", func(t *testing.T) {
		master := &fakeMaster{existing: map[string]bool{"report.pdf": true}}

		_, err := newTestService(master, &fakeFiltered{}).IngestFile(ctx, "report.pdf", []byte(reportText))

		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "report.pdf", dup.FileName)
		assert.Empty(t, master.docs)
	})

	t.Run("file duplicate check failure aborts the ingest", func(t *testing.T) {
		master := &fakeMaster{existsErr: errors.New("index unavailable")}

		_, err := newTestService(master, &fakeFiltered{}).IngestFile(ctx, "report.pdf", []byte(reportText))

		require.Error(t, err)
		assert.NotErrorAs(t, err, new(*DuplicateError))
		assert.Empty(t, master.docs)
	})

	t.Run("duplicate trace withholds only the filtered upload", func(t *testing.T) {
		master := &fakeMaster{}
		filtered := &fakeFiltered{existingTraces: map[string]bool{"ABC123": true}}

		summary, err := newTestService(master, filtered).IngestFile(ctx, "report.pdf", []byte(reportText))
		require.NoError(t, err)

		assert.Equal(t, 2, summary.TransactionCount)
		assert.Equal(t, 0, summary.FilteredCount)
		assert.True(t, summary.FilteredSkipped)
		assert.Len(t, master.docs, 2)
		assert.Empty(t, filtered.docs)
	})

	t.Run("trace duplicate check failure is an error", func(t *testing.T) {
		master := &fakeMaster{}
		filtered := &fakeFiltered{existsErr: errors.New("index unavailable")}

		_, err := newTestService(master, filtered).IngestFile(ctx, "report.pdf", []byte(reportText))

		require.Error(t, err)
		assert.Empty(t, filtered.docs)
	})

	t.Run("file with no transactions is a validation error", func(t *testing.T) {
		_, err := newTestService(&fakeMaster{}, &fakeFiltered{}).IngestFile(ctx, "empty.pdf", []byte("cover letter only"))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "empty.pdf", verr.FileName)
	})
}
