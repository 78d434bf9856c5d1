package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// ReportIndex stores AlignRx report documents.
type ReportIndex struct {
	index   bleve.Index
	indexMu sync.RWMutex
}

// NewReportIndex opens the AlignRx report index. An empty path creates an
// in-memory index.
func NewReportIndex(path string) (*ReportIndex, error) {
	index, err := openIndex(path, buildReportMapping())
	if err != nil {
		return nil, err
	}
	return &ReportIndex{index: index}, nil
}

func buildReportMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = simple.Name

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	numericFieldMapping := bleve.NewNumericFieldMapping()
	dateFieldMapping := bleve.NewDateTimeFieldMapping()

	paymentMapping := bleve.NewDocumentMapping()
	paymentMapping.AddFieldMappingsAt("sender", textFieldMapping)
	paymentMapping.AddFieldMappingsAt("check_num", keywordFieldMapping)
	paymentMapping.AddFieldMappingsAt("amount", numericFieldMapping)

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("source_file", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("date", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("destination", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("pay_date", dateFieldMapping)
	docMapping.AddFieldMappingsAt("payment_amount", numericFieldMapping)
	docMapping.AddFieldMappingsAt("processing_fee", numericFieldMapping)
	docMapping.AddSubDocumentMapping("central_payments", paymentMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name
	return indexMapping
}

// ReportExists reports whether a report with the same destination, the same
// payment amount, and a pay date inside the same calendar day is already
// indexed. The day window comes from a date range query over pay_date.
func (ri *ReportIndex) ReportExists(_ context.Context, date, destination string, amount float64) (bool, error) {
	ri.indexMu.RLock()
	defer ri.indexMu.RUnlock()

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false, fmt.Errorf("parse report date %q: %w", date, err)
	}

	startInclusive := true
	endInclusive := false
	dateQuery := bleve.NewDateRangeInclusiveQuery(day, day.AddDate(0, 0, 1), &startInclusive, &endInclusive)
	dateQuery.SetField("pay_date")

	destQuery := bleve.NewTermQuery(destination)
	destQuery.SetField("destination")

	inclusive := true
	amountQuery := bleve.NewNumericRangeInclusiveQuery(&amount, &amount, &inclusive, &inclusive)
	amountQuery.SetField("payment_amount")

	found, err := anyHits(ri.index, bleve.NewConjunctionQuery(dateQuery, destQuery, amountQuery))
	if err != nil {
		return false, fmt.Errorf("report existence query: %w", err)
	}
	return found, nil
}

// Count returns the number of indexed reports.
func (ri *ReportIndex) Count(_ context.Context) (uint64, error) {
	ri.indexMu.RLock()
	defer ri.indexMu.RUnlock()

	return ri.index.DocCount()
}

// Upload indexes a batch of report documents keyed by their "id" field.
func (ri *ReportIndex) Upload(_ context.Context, docs []map[string]interface{}) error {
	ri.indexMu.Lock()
	defer ri.indexMu.Unlock()

	batch := ri.index.NewBatch()
	for _, doc := range docs {
		id, ok := doc["id"].(string)
		if !ok || id == "" {
			return fmt.Errorf("report document missing id: %v", doc)
		}
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("batch report %s: %w", id, err)
		}
	}
	if err := ri.index.Batch(batch); err != nil {
		return fmt.Errorf("execute report batch: %w", err)
	}
	return nil
}

// Close closes the underlying index.
func (ri *ReportIndex) Close() error {
	ri.indexMu.Lock()
	defer ri.indexMu.Unlock()

	if ri.index != nil {
		return ri.index.Close()
	}
	return nil
}
