// Package pdftext extracts plain text from PDF report bytes.
package pdftext

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageBreak separates pages in the extracted text. Downstream chunking
// splits on payment markers, not page breaks, so a transaction may span
// this sentinel.
const PageBreak = "\f"

// Extract returns the document text with a PageBreak between pages. A
// document that cannot be decoded yields an empty string: a corrupt or blank
// scan means "nothing extractable", not a pipeline error.
func Extract(raw []byte, logger *slog.Logger) (text string) {
	// The pdf library panics on some malformed cross-reference tables;
	// treat that the same as a decode error.
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("pdf decode panicked", slog.Any("panic", r))
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		logger.Warn("unreadable pdf", slog.Any("error", err))
		return ""
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("page text extraction failed",
				slog.Int("page", i),
				slog.Any("error", err),
			)
			continue
		}
		if b.Len() > 0 {
			b.WriteString(PageBreak)
		}
		b.WriteString(pageText)
	}
	return b.String()
}
