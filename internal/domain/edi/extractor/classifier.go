package extractor

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/FACorreiaa/remit-engine/internal/domain/edi"
)

// Allowlist is the set of originator names whose transactions also feed the
// narrower filtered index. It is business-policy data, not parsing logic:
// membership is case-sensitive exact match on the extracted originator.
type Allowlist map[string]struct{}

// DefaultAllowlist covers the payers the filtered index tracks when no
// allow-list file is configured.
var DefaultAllowlist = NewAllowlist(
	"BCBS of NC",
	"BCBSNC",
	"NC STATE HEALTH PLAN",
	"MEDCOST BENEFIT SERVICES",
	"UNITED HEALTHCARE",
)

// NewAllowlist builds an allow-list from originator names.
func NewAllowlist(names ...string) Allowlist {
	a := make(Allowlist, len(names))
	for _, n := range names {
		a[n] = struct{}{}
	}
	return a
}

// LoadAllowlist reads an allow-list file: one originator name per line,
// blank lines and #-comments ignored.
func LoadAllowlist(path string) (Allowlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open allowlist: %w", err)
	}
	defer f.Close()

	a := make(Allowlist)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read allowlist: %w", err)
	}
	return a, nil
}

// Contains reports allow-list membership.
func (a Allowlist) Contains(originator string) bool {
	_, ok := a[originator]
	return ok
}

// Filter copies the allow-listed transactions with line items cleared. The
// filtered index schema is flat and has no line_items collection, so the
// copies drop them; the originals are left untouched.
func (a Allowlist) Filter(transactions []edi.Transaction) []edi.Transaction {
	if len(a) == 0 {
		return nil
	}
	var filtered []edi.Transaction
	for _, tx := range transactions {
		if !a.Contains(tx.Originator) {
			continue
		}
		cp := tx
		cp.LineItems = nil
		filtered = append(filtered, cp)
	}
	return filtered
}
