package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// TransactionIndex stores EDI transaction documents. The same type backs the
// master index (full documents with line items) and the filtered index (flat
// allow-listed subset); only the mapping and duplicate-check key differ.
type TransactionIndex struct {
	index   bleve.Index
	indexMu sync.RWMutex
}

// NewMasterIndex opens the master transaction index. An empty path creates
// an in-memory index.
func NewMasterIndex(path string) (*TransactionIndex, error) {
	index, err := openIndex(path, buildTransactionMapping(true))
	if err != nil {
		return nil, err
	}
	return &TransactionIndex{index: index}, nil
}

// NewFilteredIndex opens the filtered transaction index. Its schema is the
// flat transaction document without the line_items collection.
func NewFilteredIndex(path string) (*TransactionIndex, error) {
	index, err := openIndex(path, buildTransactionMapping(false))
	if err != nil {
		return nil, err
	}
	return &TransactionIndex{index: index}, nil
}

func buildTransactionMapping(withLineItems bool) mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = simple.Name

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	numericFieldMapping := bleve.NewNumericFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	for _, f := range []string{
		"id", "trace_number", "effective_date", "file_name", "page_number",
		"routing_id_credit", "routing_id_debit", "company_id_debit",
		"mutually_defined", "input_format", "demand_account",
	} {
		docMapping.AddFieldMappingsAt(f, keywordFieldMapping)
	}
	docMapping.AddFieldMappingsAt("receiver", textFieldMapping)
	docMapping.AddFieldMappingsAt("originator", textFieldMapping)
	docMapping.AddFieldMappingsAt("searchable_text", textFieldMapping)
	docMapping.AddFieldMappingsAt("amount", numericFieldMapping)

	if withLineItems {
		lineItemMapping := bleve.NewDocumentMapping()
		lineItemMapping.AddFieldMappingsAt("line_number", keywordFieldMapping)
		lineItemMapping.AddFieldMappingsAt("seller_invoice_num", keywordFieldMapping)
		lineItemMapping.AddFieldMappingsAt("invoice_amount", numericFieldMapping)
		lineItemMapping.AddFieldMappingsAt("net_amount_paid", numericFieldMapping)
		docMapping.AddSubDocumentMapping("line_items", lineItemMapping)
	}

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name
	return indexMapping
}

// FileExists reports whether any transaction from the named report file is
// already indexed.
func (ti *TransactionIndex) FileExists(_ context.Context, fileName string) (bool, error) {
	ti.indexMu.RLock()
	defer ti.indexMu.RUnlock()

	termQuery := bleve.NewTermQuery(fileName)
	termQuery.SetField("file_name")

	found, err := anyHits(ti.index, termQuery)
	if err != nil {
		return false, fmt.Errorf("file existence query: %w", err)
	}
	return found, nil
}

// TraceExists reports whether a transaction with this trace number and exact
// amount is already indexed. Amount equality is expressed as an inclusive
// numeric range with min equal to max.
func (ti *TransactionIndex) TraceExists(_ context.Context, traceNumber string, amount float64) (bool, error) {
	ti.indexMu.RLock()
	defer ti.indexMu.RUnlock()

	traceQuery := bleve.NewTermQuery(traceNumber)
	traceQuery.SetField("trace_number")

	inclusive := true
	amountQuery := bleve.NewNumericRangeInclusiveQuery(&amount, &amount, &inclusive, &inclusive)
	amountQuery.SetField("amount")

	found, err := anyHits(ti.index, bleve.NewConjunctionQuery(traceQuery, amountQuery))
	if err != nil {
		return false, fmt.Errorf("trace existence query: %w", err)
	}
	return found, nil
}

// Count returns the number of indexed transactions.
func (ti *TransactionIndex) Count(_ context.Context) (uint64, error) {
	ti.indexMu.RLock()
	defer ti.indexMu.RUnlock()

	return ti.index.DocCount()
}

// Upload indexes a batch of transaction documents keyed by their "id" field.
func (ti *TransactionIndex) Upload(_ context.Context, docs []map[string]interface{}) error {
	ti.indexMu.Lock()
	defer ti.indexMu.Unlock()

	batch := ti.index.NewBatch()
	for _, doc := range docs {
		id, ok := doc["id"].(string)
		if !ok || id == "" {
			return fmt.Errorf("transaction document missing id: %v", doc)
		}
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("batch transaction %s: %w", id, err)
		}
	}
	if err := ti.index.Batch(batch); err != nil {
		return fmt.Errorf("execute transaction batch: %w", err)
	}
	return nil
}

// Search runs a query-string search over the index, e.g.
// "originator:bcbs +amount:>1000".
func (ti *TransactionIndex) Search(_ context.Context, queryString string, limit int) (*bleve.SearchResult, error) {
	ti.indexMu.RLock()
	defer ti.indexMu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	req := bleve.NewSearchRequest(bleve.NewQueryStringQuery(queryString))
	req.Size = limit
	req.Fields = []string{"*"}

	res, err := ti.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("transaction search: %w", err)
	}
	return res, nil
}

// Close closes the underlying index.
func (ti *TransactionIndex) Close() error {
	ti.indexMu.Lock()
	defer ti.indexMu.Unlock()

	if ti.index != nil {
		return ti.index.Close()
	}
	return nil
}
