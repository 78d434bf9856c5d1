// Package alignrx holds the record types for AlignRx central-pay remittance
// reports, the spreadsheet counterpart of the EDI transaction records.
package alignrx

import (
	"time"

	"github.com/shopspring/decimal"
)

// CentralPayment is one payer check rolled into a central-pay remittance.
type CentralPayment struct {
	Sender   string          `json:"sender"`
	CheckNum string          `json:"check_num"`
	Amount   decimal.Decimal `json:"amount"`
}

// Report is a fully parsed AlignRx remittance report. Date is normalized to
// YYYY-MM-DD. ProcessingFee and PaymentAmount are pointers because the
// source spreadsheet can omit them; a missing payment amount fails
// validation, a missing fee does not.
type Report struct {
	ID              string
	SourceFile      string
	Date            string
	Destination     string
	CentralPayments []CentralPayment
	ProcessingFee   *decimal.Decimal
	PaymentAmount   *decimal.Decimal
}

// MissingFields lists the required fields the parse did not populate.
func (r *Report) MissingFields() []string {
	var missing []string
	if r.Date == "" {
		missing = append(missing, "date")
	}
	if r.Destination == "" {
		missing = append(missing, "destination")
	}
	if r.PaymentAmount == nil {
		missing = append(missing, "payment_amount")
	}
	return missing
}

// Doc renders the report as an index document. pay_date is emitted as a
// time.Time so the index can run date-range queries for the same-day
// duplicate window; the string date stays alongside it for display.
func (r *Report) Doc() map[string]interface{} {
	payments := make([]map[string]interface{}, 0, len(r.CentralPayments))
	for _, p := range r.CentralPayments {
		payments = append(payments, map[string]interface{}{
			"sender":    p.Sender,
			"check_num": p.CheckNum,
			"amount":    p.Amount.InexactFloat64(),
		})
	}

	doc := map[string]interface{}{
		"id":               r.ID,
		"source_file":      r.SourceFile,
		"date":             r.Date,
		"destination":      r.Destination,
		"central_payments": payments,
	}
	if t, err := time.Parse("2006-01-02", r.Date); err == nil {
		doc["pay_date"] = t
	}
	if r.ProcessingFee != nil {
		doc["processing_fee"] = r.ProcessingFee.InexactFloat64()
	}
	if r.PaymentAmount != nil {
		doc["payment_amount"] = r.PaymentAmount.InexactFloat64()
	}
	return doc
}
