package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var spaceRun = regexp.MustCompile(`\s+`)

// searchField applies the named pattern and returns the first capture group
// with whitespace collapsed, or "" when the field is absent. Absence is a
// soft failure: the rest of the record still parses.
func searchField(text, name string) string {
	m := patterns[name].FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return collapse(m[1])
}

// findAll returns every capture of the named pattern in document order, for
// the repeated labels that are disambiguated by position.
func findAll(text, name string) []string {
	var values []string
	for _, m := range patterns[name].FindAllStringSubmatch(text, -1) {
		values = append(values, collapse(m[1]))
	}
	return values
}

// nth returns values[i] or "".
func nth(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// collapse normalizes runs of whitespace to single spaces and trims.
func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// cleanReceiver strips a MUTUALLY DEFINED label fragment that the regex can
// drag in when the fields share a line.
func cleanReceiver(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "MUTUALLY DEFINED:", ""))
}

// cleanAmount strips the currency symbol and thousands separators and parses
// the remainder as a decimal. A non-numeric remainder is a hard failure for
// the field.
func cleanAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// normalizeDate converts MM/DD/YYYY to YYYY-MM-DD. Anything that does not
// parse passes through unchanged, so a malformed date degrades to an opaque
// string instead of blocking the rest of the record. Already-normalized
// dates contain no slash and pass through, making normalization idempotent.
func normalizeDate(s string) string {
	if s == "" || !strings.Contains(s, "/") {
		return s
	}
	t, err := time.Parse("01/02/2006", s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}
