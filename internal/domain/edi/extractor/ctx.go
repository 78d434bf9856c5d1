package extractor

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/remit-engine/internal/domain/edi"
)

// parseCTX assembles an ACHCTX transaction. Unlike CCD+, the routing and
// account fields sit inside CREDIT PARTY / DEBIT PARTY sub-blocks, and the
// DETAILS block carries a repeated group of invoice line items.
func (e *Extractor) parseCTX(chunk, fileName string, amount decimal.Decimal) edi.Transaction {
	tx := common(chunk, fileName, amount)
	tx.InputFormat = edi.FormatCTX

	creditBlock := blockBetween(chunk, creditPartyMarker, debitPartyMarker)
	debitBlock := blockBetween(chunk, debitPartyMarker, detailsMarker)

	tx.RoutingIDCredit = searchField(creditBlock, "routing_id")
	tx.DemandAccount = searchField(creditBlock, "demand_acct")
	tx.RoutingIDDebit = searchField(debitBlock, "routing_id")
	tx.CompanyIDDebit = searchField(debitBlock, "company_id")

	tx.LineItems = e.parseLineItems(blockAfter(chunk, detailsMarker), fileName)
	return tx
}

// parseLineItems splits a DETAILS block on its LINE markers and parses each
// segment. A malformed segment is logged and dropped without aborting the
// rest of the transaction.
func (e *Extractor) parseLineItems(details, fileName string) []edi.LineItem {
	if details == "" {
		return nil
	}

	markers := lineMarker.FindAllStringSubmatchIndex(details, -1)
	items := make([]edi.LineItem, 0, len(markers))
	for i, loc := range markers {
		lineNumber := details[loc[2]:loc[3]]
		end := len(details)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		segment := details[loc[1]:end]

		item, err := parseLineSegment(lineNumber, segment)
		if err != nil {
			e.logger.Warn("skipping malformed line item",
				slog.String("line", lineNumber),
				slog.String("file", fileName),
				slog.Any("error", err),
			)
			continue
		}
		items = append(items, item)
	}
	return items
}

func parseLineSegment(lineNumber, segment string) (edi.LineItem, error) {
	invoiceAmount, err := cleanAmount(searchField(segment, "invoice_amount"))
	if err != nil {
		return edi.LineItem{}, fmt.Errorf("invoice amount: %w", err)
	}
	netAmountPaid, err := cleanAmount(searchField(segment, "net_amount_paid"))
	if err != nil {
		return edi.LineItem{}, fmt.Errorf("net amount paid: %w", err)
	}

	return edi.LineItem{
		LineNumber:       lineNumber,
		SellerInvoiceNum: searchField(segment, "seller_invoice"),
		InvoiceAmount:    invoiceAmount,
		NetAmountPaid:    netAmountPaid,
	}, nil
}
