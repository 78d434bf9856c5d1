// Package search provides the Bleve-backed index sinks for extracted
// remittance records: the master transaction index, the narrower filtered
// index, and the AlignRx report index. Each wraps its own bleve.Index with
// the same open-or-create lifecycle and batch upload path.
package search

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// openIndex opens a persistent index at path, creating it with the given
// mapping on first use. An empty path yields an in-memory index, which tests
// rely on.
func openIndex(path string, indexMapping mapping.IndexMapping) (bleve.Index, error) {
	if path == "" {
		index, err := bleve.NewMemOnly(indexMapping)
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return index, nil
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
		index, err := bleve.New(path, indexMapping)
		if err != nil {
			return nil, fmt.Errorf("create index %s: %w", path, err)
		}
		return index, nil
	}

	index, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	return index, nil
}

// anyHits runs a query and reports whether it matched at least one document.
func anyHits(index bleve.Index, q query.Query) (bool, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = 1
	res, err := index.Search(req)
	if err != nil {
		return false, err
	}
	return res.Total > 0, nil
}
