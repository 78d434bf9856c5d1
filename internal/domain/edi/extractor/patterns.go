package extractor

import "regexp"

// Section labels the splitter and dialect parsers anchor on. These are the
// parse grammar of the report templates and must match the source text
// verbatim.
const (
	paymentMarker     = "PAYMENT INFORMATION:"
	creditLabel       = "CREDIT:"
	creditPartyMarker = "CREDIT PARTY"
	debitPartyMarker  = "DEBIT PARTY"
	detailsMarker     = "DETAILS:"
)

// patterns is the field-extraction grammar, kept in one read-only table so
// dialect differences stay auditable in one place. ROUTING ID and COMPANY ID
// appear twice per payment: the first occurrence belongs to the credit party
// and the second to the debit party. That ordering is a contract of the
// input format; the parser cannot verify it.
var patterns = map[string]*regexp.Regexp{
	"credit_amount":    regexp.MustCompile(`CREDIT:\s*\$?\s*([\d,]+\.?\d*)`),
	"effective_date":   regexp.MustCompile(`EFFECTIVE DATE:\s*(\d{2}/\d{2}/\d{4})`),
	"input_format":     regexp.MustCompile(`INPUT FORMAT:\s*([A-Z]+\+?)`),
	"page_number":      regexp.MustCompile(`PAGE:\s*(\d+)`),
	"routing_id":       regexp.MustCompile(`ROUTING ID:\s*(\d+)`),
	"demand_acct":      regexp.MustCompile(`DEMAND ACCT:\s*(\d+)`),
	"company_id":       regexp.MustCompile(`COMPANY ID:\s*(\d+)`),
	"trace_number":     regexp.MustCompile(`TRACE NUMBER:\s*([A-Za-z0-9]+)`),
	"receiver":         regexp.MustCompile(`RECEIVER:\s*([A-Za-z0-9\s/]+?)(?:\n|MUTUALLY)`),
	"mutually_defined": regexp.MustCompile(`MUTUALLY DEFINED:\s*(\d+)`),
	"originator":       regexp.MustCompile(`ORIGINATOR:\s*([A-Za-z0-9\s\-/]+?)(?:\n|$)`),
	"seller_invoice":   regexp.MustCompile(`SELLER INVOICE NUM:\s*([A-Za-z0-9\-/]+)`),
	"invoice_amount":   regexp.MustCompile(`TOTAL INV AMOUNT:\s*\$?\s*([\d,]+\.?\d*)`),
	"net_amount_paid":  regexp.MustCompile(`AMOUNT PAID:\s*\$?\s*([\d,]+\.?\d*)`),
}

// lineMarker starts each line item inside a DETAILS block.
var lineMarker = regexp.MustCompile(`LINE:\s*(\d+)`)
