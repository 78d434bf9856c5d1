package extractor

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/remit-engine/internal/domain/edi"
)

const ccdChunk = `PAYMENT INFORMATION:
CREDIT: $1,234.56 EFFECTIVE DATE: 03/15/2025
PAGE: 3
INPUT FORMAT: ACHCCD+
ROUTING ID: 053000196
DEMAND ACCT: 123456789
COMPANY ID: 561234567
ROUTING ID: 061000052
COMPANY ID: 587654321
TRACE NUMBER: ABC123
RECEIVER: NC STATE TREASURER
MUTUALLY DEFINED: 000012345
ORIGINATOR: BCBS of NC
`

const ctxChunk = `PAYMENT INFORMATION:
CREDIT: $10,000.00 EFFECTIVE DATE: 04/01/2025
PAGE: 7
INPUT FORMAT: ACHCTX
TRACE NUMBER: CTX900100
RECEIVER: CAROLINA HEALTH SYSTEM
ORIGINATOR: BCBS of NC
CREDIT PARTY
ROUTING ID: 053000196
DEMAND ACCT: 000111222
DEBIT PARTY
ROUTING ID: 061000052
COMPANY ID: 587654321
DETAILS:
LINE: 00001
SELLER INVOICE NUM: INV-1001
TOTAL INV AMOUNT: $600.00
AMOUNT PAID: $550.00
LINE: 00002
SELLER INVOICE NUM: INV-1002
TOTAL INV AMOUNT: $9,400.00
AMOUNT PAID: $9,450.00
`

func testExtractor(allowlist Allowlist) *Extractor {
	return New(allowlist, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSplitPayments(t *testing.T) {
	t.Run("discards preamble and keeps document order", func(t *testing.T) {
		text := "NORTH CAROLINA STATE TREASURER\nREMITTANCE ADVICE\n" + ccdChunk + ctxChunk

		chunks := SplitPayments(text)

		require.Len(t, chunks, 2)
		assert.True(t, strings.HasPrefix(chunks[0], "PAYMENT INFORMATION:"))
		assert.Contains(t, chunks[0], "ABC123")
		assert.Contains(t, chunks[1], "CTX900100")
		assert.NotContains(t, chunks[0], "REMITTANCE ADVICE")
	})

	t.Run("empty input yields no chunks", func(t *testing.T) {
		assert.Empty(t, SplitPayments(""))
		assert.Empty(t, SplitPayments("letterhead only, no payments"))
	})

	t.Run("page break inside a payment does not split it", func(t *testing.T) {
		interrupted := strings.Replace(ccdChunk, "TRACE NUMBER:", "\fTRACE NUMBER:", 1)

		chunks := SplitPayments(interrupted)

		require.Len(t, chunks, 1)
		assert.Contains(t, chunks[0], "ABC123")
	})
}

func TestExtract_CCD(t *testing.T) {
	t.Run("parses a flat CCD+ chunk", func(t *testing.T) {
		res := testExtractor(DefaultAllowlist).Extract(ccdChunk, "report.pdf")

		require.Len(t, res.Transactions, 1)
		tx := res.Transactions[0]
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString("1234.56")))
		assert.Equal(t, "2025-03-15", tx.EffectiveDate)
		assert.Equal(t, "ABC123", tx.TraceNumber)
		assert.Equal(t, edi.FormatCCD, tx.InputFormat)
		assert.Equal(t, "3", tx.PageNumber)
		assert.Equal(t, "NC STATE TREASURER", tx.Receiver)
		assert.Equal(t, "BCBS of NC", tx.Originator)
		assert.Equal(t, "000012345", tx.MutuallyDefined)
		assert.Equal(t, "123456789", tx.DemandAccount)
		assert.Equal(t, "report.pdf", tx.FileName)
		assert.Empty(t, tx.LineItems)
	})

	t.Run("first occurrence is credit and second is debit", func(t *testing.T) {
		res := testExtractor(nil).Extract(ccdChunk, "report.pdf")

		require.Len(t, res.Transactions, 1)
		tx := res.Transactions[0]
		assert.Equal(t, "053000196", tx.RoutingIDCredit)
		assert.Equal(t, "061000052", tx.RoutingIDDebit)
		assert.Equal(t, "587654321", tx.CompanyIDDebit)
	})

	t.Run("single routing id leaves debit empty", func(t *testing.T) {
		chunk := strings.Replace(ccdChunk, "ROUTING ID: 061000052\n", "", 1)

		res := testExtractor(nil).Extract(chunk, "report.pdf")

		require.Len(t, res.Transactions, 1)
		assert.Equal(t, "053000196", res.Transactions[0].RoutingIDCredit)
		assert.Empty(t, res.Transactions[0].RoutingIDDebit)
	})

	t.Run("occurrence order decides party even when swapped", func(t *testing.T) {
		// The credit-before-debit ordering is a contract of the input
		// format. If a source ever presents debit first, the parser
		// still assigns by position; this pins that behavior down.
		swapped := `PAYMENT INFORMATION:
CREDIT: $50.00
INPUT FORMAT: ACHCCD+
ROUTING ID: 999999999
ROUTING ID: 111111111
`
		res := testExtractor(nil).Extract(swapped, "report.pdf")

		require.Len(t, res.Transactions, 1)
		assert.Equal(t, "999999999", res.Transactions[0].RoutingIDCredit)
		assert.Equal(t, "111111111", res.Transactions[0].RoutingIDDebit)
	})

	t.Run("falls back to the only company id", func(t *testing.T) {
		chunk := strings.Replace(ccdChunk, "COMPANY ID: 587654321\n", "", 1)

		res := testExtractor(nil).Extract(chunk, "report.pdf")

		require.Len(t, res.Transactions, 1)
		assert.Equal(t, "561234567", res.Transactions[0].CompanyIDDebit)
	})
}

func TestExtract_CTX(t *testing.T) {
	t.Run("parses party blocks and line items", func(t *testing.T) {
		res := testExtractor(DefaultAllowlist).Extract(ctxChunk, "master.pdf")

		require.Len(t, res.Transactions, 1)
		tx := res.Transactions[0]
		assert.Equal(t, edi.FormatCTX, tx.InputFormat)
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString("10000.00")))
		assert.Equal(t, "053000196", tx.RoutingIDCredit)
		assert.Equal(t, "000111222", tx.DemandAccount)
		assert.Equal(t, "061000052", tx.RoutingIDDebit)
		assert.Equal(t, "587654321", tx.CompanyIDDebit)
		assert.Empty(t, tx.MutuallyDefined)

		require.Len(t, tx.LineItems, 2)
		li := tx.LineItems[0]
		assert.Equal(t, "00001", li.LineNumber)
		assert.Equal(t, "INV-1001", li.SellerInvoiceNum)
		assert.True(t, li.InvoiceAmount.Equal(decimal.RequireFromString("600.00")))
		assert.True(t, li.NetAmountPaid.Equal(decimal.RequireFromString("550.00")))
		assert.Equal(t, "INV-1002", tx.LineItems[1].SellerInvoiceNum)
	})

	t.Run("malformed line segment is dropped, not fatal", func(t *testing.T) {
		broken := strings.Replace(ctxChunk, "TOTAL INV AMOUNT: $600.00", "TOTAL INV AMOUNT: $,", 1)

		res := testExtractor(nil).Extract(broken, "master.pdf")

		require.Len(t, res.Transactions, 1)
		require.Len(t, res.Transactions[0].LineItems, 1)
		assert.Equal(t, "00002", res.Transactions[0].LineItems[0].LineNumber)
	})

	t.Run("missing details block yields no line items", func(t *testing.T) {
		chunk := ctxChunk[:strings.Index(ctxChunk, "DETAILS:")]

		res := testExtractor(nil).Extract(chunk, "master.pdf")

		require.Len(t, res.Transactions, 1)
		assert.Empty(t, res.Transactions[0].LineItems)
	})
}

func TestExtract_SkipPolicy(t *testing.T) {
	t.Run("chunk without credit amount is noise", func(t *testing.T) {
		cover := "PAYMENT INFORMATION:\nsummary cover page, nothing here\n"

		res := testExtractor(nil).Extract(cover+ccdChunk, "report.pdf")

		assert.Len(t, res.Transactions, 1)
	})

	t.Run("unparseable credit amount skips only that chunk", func(t *testing.T) {
		bad := strings.Replace(ccdChunk, "$1,234.56", "$,", 1)

		res := testExtractor(nil).Extract(bad+ctxChunk, "report.pdf")

		require.Len(t, res.Transactions, 1)
		assert.Equal(t, "CTX900100", res.Transactions[0].TraceNumber)
	})

	t.Run("unknown input format skips only that chunk", func(t *testing.T) {
		unknown := strings.Replace(ccdChunk, "ACHCCD+", "ACHXYZ", 1)

		res := testExtractor(nil).Extract(unknown+ctxChunk, "report.pdf")

		require.Len(t, res.Transactions, 1)
		assert.Equal(t, edi.FormatCTX, res.Transactions[0].InputFormat)
	})

	t.Run("transaction count equals chunks with parseable amounts", func(t *testing.T) {
		doc := "letterhead\n" + ccdChunk + "PAYMENT INFORMATION:\nblank page\n" + ctxChunk

		res := testExtractor(nil).Extract(doc, "report.pdf")

		assert.Len(t, res.Transactions, 2)
	})

	t.Run("multi-page transaction parses as one record", func(t *testing.T) {
		doc := strings.Replace(ccdChunk, "TRACE NUMBER:", "\fTRACE NUMBER:", 1)

		res := testExtractor(nil).Extract(doc, "report.pdf")

		require.Len(t, res.Transactions, 1)
		tx := res.Transactions[0]
		assert.Equal(t, "ABC123", tx.TraceNumber)
		assert.Equal(t, "2025-03-15", tx.EffectiveDate)
		assert.Equal(t, "BCBS of NC", tx.Originator)
	})
}

func TestExtract_FilteredSubset(t *testing.T) {
	t.Run("allow-listed originator lands in both collections", func(t *testing.T) {
		res := testExtractor(DefaultAllowlist).Extract(ccdChunk, "report.pdf")

		require.Len(t, res.Transactions, 1)
		require.Len(t, res.Filtered, 1)
		assert.Equal(t, "ABC123", res.Filtered[0].TraceNumber)
		assert.Empty(t, res.Filtered[0].LineItems)
	})

	t.Run("filtered copy drops line items but keeps the original intact", func(t *testing.T) {
		res := testExtractor(DefaultAllowlist).Extract(ctxChunk, "master.pdf")

		require.Len(t, res.Filtered, 1)
		assert.Empty(t, res.Filtered[0].LineItems)
		require.Len(t, res.Transactions, 1)
		assert.Len(t, res.Transactions[0].LineItems, 2)
	})

	t.Run("membership is case-sensitive exact match", func(t *testing.T) {
		res := testExtractor(NewAllowlist("bcbs of nc")).Extract(ccdChunk, "report.pdf")

		assert.Len(t, res.Transactions, 1)
		assert.Empty(t, res.Filtered)
	})
}

func TestFieldHelpers(t *testing.T) {
	t.Run("amount cleaning", func(t *testing.T) {
		got, err := cleanAmount("$1,234.56")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString("1234.56")))

		_, err = cleanAmount("$,")
		assert.Error(t, err)
	})

	t.Run("date normalization is idempotent", func(t *testing.T) {
		assert.Equal(t, "2025-03-15", normalizeDate("03/15/2025"))
		assert.Equal(t, "2025-03-15", normalizeDate(normalizeDate("03/15/2025")))
		assert.Equal(t, "13/45/2025", normalizeDate("13/45/2025"))
		assert.Equal(t, "", normalizeDate(""))
	})

	t.Run("whitespace collapse on party names", func(t *testing.T) {
		chunk := strings.Replace(ccdChunk, "ORIGINATOR: BCBS of NC", "ORIGINATOR: BCBS  of   NC", 1)

		res := testExtractor(nil).Extract(chunk, "report.pdf")

		require.Len(t, res.Transactions, 1)
		assert.Equal(t, "BCBS of NC", res.Transactions[0].Originator)
	})
}
