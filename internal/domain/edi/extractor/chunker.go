package extractor

import "strings"

// SplitPayments re-segments full document text into one chunk per payment by
// the PAYMENT INFORMATION section label, discarding the letterhead before
// the first occurrence. A payment that spans a physical page boundary stays
// intact in its chunk, which the legacy page-based split could not
// guarantee. Chunks come back in document order; empty input yields nil.
func SplitPayments(text string) []string {
	start := strings.Index(text, paymentMarker)
	if start < 0 {
		return nil
	}

	parts := strings.Split(text[start:], paymentMarker)
	chunks := make([]string, 0, len(parts)-1)
	for _, body := range parts[1:] {
		chunks = append(chunks, paymentMarker+body)
	}
	return chunks
}

// blockBetween returns the text after the first occurrence of start, cut at
// the next occurrence of end. Missing start yields "", missing end runs to
// the end of text.
func blockBetween(text, start, end string) string {
	i := strings.Index(text, start)
	if i < 0 {
		return ""
	}
	rest := text[i+len(start):]
	if j := strings.Index(rest, end); j >= 0 {
		return rest[:j]
	}
	return rest
}

// blockAfter returns the text after the first occurrence of marker, or "".
func blockAfter(text, marker string) string {
	i := strings.Index(text, marker)
	if i < 0 {
		return ""
	}
	return text[i+len(marker):]
}
