// Package edi defines the transaction records extracted from EDI remittance
// advice reports. Field names on the index documents mirror the existing
// search index schemas and must not change.
package edi

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Input formats (dialects) the extractor understands. The INPUT FORMAT field
// of a payment chunk selects the parsing strategy.
const (
	FormatCCD = "ACHCCD+"
	FormatCTX = "ACHCTX"
)

// LineItem is one invoice detail line of an ACHCTX payment. Line items are
// owned by their parent transaction and never shared.
type LineItem struct {
	LineNumber       string          `json:"line_number"`
	SellerInvoiceNum string          `json:"seller_invoice_num"`
	InvoiceAmount    decimal.Decimal `json:"invoice_amount"`
	NetAmountPaid    decimal.Decimal `json:"net_amount_paid"`
}

// Transaction is one payment extracted from a remittance report. A chunk
// without a parseable credit amount is not a transaction at all, so Amount is
// always populated on a constructed Transaction. Records are immutable after
// parsing; the classifier copies rather than mutates.
type Transaction struct {
	TraceNumber     string          `json:"trace_number"`
	Amount          decimal.Decimal `json:"amount"`
	EffectiveDate   string          `json:"effective_date"`
	Receiver        string          `json:"receiver"`
	Originator      string          `json:"originator"`
	PageNumber      string          `json:"page_number"`
	RoutingIDCredit string          `json:"routing_id_credit"`
	RoutingIDDebit  string          `json:"routing_id_debit"`
	CompanyIDDebit  string          `json:"company_id_debit"`
	MutuallyDefined string          `json:"mutually_defined"`
	InputFormat     string          `json:"input_format"`
	DemandAccount   string          `json:"demand_account"`
	FileName        string          `json:"file_name"`
	LineItems       []LineItem      `json:"line_items"`
}

// searchableText combines the key fields into the free-text field the
// indexes expose for unstructured queries.
func (t Transaction) searchableText() string {
	return fmt.Sprintf("%s %s %s %s %s",
		t.Amount.String(), t.EffectiveDate, t.Receiver, t.Originator, t.TraceNumber)
}

// Doc returns the flat, index-ready representation of the transaction for
// the master index, including the line_items collection.
func (t Transaction) Doc(id string) map[string]interface{} {
	doc := t.flatDoc(id)
	doc["input_format"] = t.InputFormat
	doc["demand_account"] = t.DemandAccount

	items := make([]map[string]interface{}, 0, len(t.LineItems))
	for _, li := range t.LineItems {
		items = append(items, map[string]interface{}{
			"line_number":        li.LineNumber,
			"seller_invoice_num": li.SellerInvoiceNum,
			"invoice_amount":     li.InvoiceAmount.InexactFloat64(),
			"net_amount_paid":    li.NetAmountPaid.InexactFloat64(),
		})
	}
	doc["line_items"] = items
	return doc
}

// FilteredDoc returns the narrow-schema representation for the filtered
// index, which has no room for line items or format details.
func (t Transaction) FilteredDoc(id string) map[string]interface{} {
	return t.flatDoc(id)
}

func (t Transaction) flatDoc(id string) map[string]interface{} {
	return map[string]interface{}{
		"id":                id,
		"trace_number":      t.TraceNumber,
		"amount":            t.Amount.InexactFloat64(),
		"effective_date":    t.EffectiveDate,
		"receiver":          t.Receiver,
		"originator":        t.Originator,
		"page_number":       t.PageNumber,
		"routing_id_credit": t.RoutingIDCredit,
		"routing_id_debit":  t.RoutingIDDebit,
		"company_id_debit":  t.CompanyIDDebit,
		"mutually_defined":  t.MutuallyDefined,
		"file_name":         t.FileName,
		"searchable_text":   t.searchableText(),
	}
}
