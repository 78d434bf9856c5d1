package pdftext

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("garbage bytes yield empty text, not a panic", func(t *testing.T) {
		assert.Equal(t, "", Extract([]byte("definitely not a pdf"), logger))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Extract(nil, logger))
	})

	t.Run("truncated header", func(t *testing.T) {
		assert.Equal(t, "", Extract([]byte("%PDF-1.7\n"), logger))
	})
}
