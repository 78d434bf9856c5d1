package extractor

import (
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/remit-engine/internal/domain/edi"
)

// parseCCD assembles a flat ACHCCD+ transaction. Every field lives at the
// top level of the chunk; routing and company ids are disambiguated purely
// by occurrence order (credit party first, debit party second).
func (e *Extractor) parseCCD(chunk, fileName string, amount decimal.Decimal) edi.Transaction {
	tx := common(chunk, fileName, amount)
	tx.InputFormat = edi.FormatCCD

	routingIDs := findAll(chunk, "routing_id")
	tx.RoutingIDCredit = nth(routingIDs, 0)
	tx.RoutingIDDebit = nth(routingIDs, 1)

	companyIDs := findAll(chunk, "company_id")
	tx.CompanyIDDebit = nth(companyIDs, 1)
	if tx.CompanyIDDebit == "" {
		tx.CompanyIDDebit = nth(companyIDs, 0)
	}

	tx.DemandAccount = searchField(chunk, "demand_acct")
	tx.MutuallyDefined = searchField(chunk, "mutually_defined")
	return tx
}
