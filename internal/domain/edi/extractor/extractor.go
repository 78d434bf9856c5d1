// Package extractor converts EDI remittance report text into transaction
// records. The pipeline is chunk splitting, dialect classification via the
// INPUT FORMAT field, and per-dialect field assembly. All of it is
// synchronous, CPU-bound work over in-memory strings; the pattern table is
// read-only, so separate documents may be extracted concurrently by callers.
package extractor

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/remit-engine/internal/domain/edi"
)

// Extractor parses report text into transactions and partitions them against
// the originator allow-list.
type Extractor struct {
	allowlist Allowlist
	logger    *slog.Logger
}

// Result carries both indexable artifacts of a single parse: every
// transaction in document order, and the allow-listed subset (line items
// cleared) destined for the narrower filtered index.
type Result struct {
	Transactions []edi.Transaction
	Filtered     []edi.Transaction
}

// New creates an extractor. A nil allowlist leaves the filtered subset empty.
func New(allowlist Allowlist, logger *slog.Logger) *Extractor {
	return &Extractor{allowlist: allowlist, logger: logger}
}

// Extract parses every payment chunk of the document text. Chunks that are
// not transactions (no credit amount) are skipped silently; chunks with an
// unknown dialect are skipped with a warning. One bad chunk never loses the
// rest of the file.
func (e *Extractor) Extract(text, fileName string) Result {
	chunks := SplitPayments(text)

	transactions := make([]edi.Transaction, 0, len(chunks))
	for _, chunk := range chunks {
		tx, ok := e.parseChunk(chunk, fileName)
		if !ok {
			continue
		}
		transactions = append(transactions, tx)
	}

	return Result{
		Transactions: transactions,
		Filtered:     e.allowlist.Filter(transactions),
	}
}

func (e *Extractor) parseChunk(chunk, fileName string) (edi.Transaction, bool) {
	// The credit amount is the existence test: a chunk without one is
	// noise such as a cover page, not a failed transaction.
	if !strings.Contains(chunk, creditLabel) {
		return edi.Transaction{}, false
	}
	amount, ok := e.creditAmount(chunk, fileName)
	if !ok {
		return edi.Transaction{}, false
	}

	format := searchField(chunk, "input_format")
	switch format {
	case edi.FormatCCD:
		return e.parseCCD(chunk, fileName, amount), true
	case edi.FormatCTX:
		return e.parseCTX(chunk, fileName, amount), true
	default:
		e.logger.Warn("skipping chunk with unknown input format",
			slog.String("input_format", format),
			slog.String("file", fileName),
		)
		return edi.Transaction{}, false
	}
}

func (e *Extractor) creditAmount(chunk, fileName string) (decimal.Decimal, bool) {
	m := patterns["credit_amount"].FindStringSubmatch(chunk)
	if m == nil {
		return decimal.Decimal{}, false
	}
	amount, err := cleanAmount(m[1])
	if err != nil {
		e.logger.Warn("skipping chunk with unparseable credit amount",
			slog.String("value", m[1]),
			slog.String("file", fileName),
			slog.Any("error", err),
		)
		return decimal.Decimal{}, false
	}
	return amount, true
}

// common extracts the fields shared by both dialects from the whole chunk.
func common(chunk, fileName string, amount decimal.Decimal) edi.Transaction {
	return edi.Transaction{
		Amount:          amount,
		EffectiveDate:   normalizeDate(searchField(chunk, "effective_date")),
		PageNumber:      searchField(chunk, "page_number"),
		TraceNumber:     nth(findAll(chunk, "trace_number"), 0),
		Receiver:        cleanReceiver(searchField(chunk, "receiver")),
		Originator:      searchField(chunk, "originator"),
		FileName:        fileName,
	}
}
