// Package extract contains the heuristic parsing pipeline that turns noisy
// multi-pass OCR text of an SAP Business One purchase-order screen into a
// structured payload.
//
// Every field is extracted by an ordered chain of pattern strategies; the
// first strategy that yields an acceptable value wins. The chains make the
// heuristic priority order explicit and testable in isolation. Extraction
// never fails: each field degrades to an empty string, a default value, or
// a best-effort synthesized line item. An inaccurate draft invoice is more
// useful to the operator than no invoice, and the surrounding workflow
// assumes human review before the PDF is sent.
package extract

import (
	"regexp"
	"strings"
)

// strategy is one ordered attempt at pulling a field out of OCR text.
type strategy struct {
	name string
	re   *regexp.Regexp

	// accept optionally vets a candidate match against the full text.
	// The first accepted candidate wins; a nil accept takes the first
	// non-empty capture group.
	accept func(text string, match []string) (string, bool)
}

// attempt runs the strategy over the text and returns the first accepted value.
func (s strategy) attempt(text string) (string, bool) {
	for _, match := range s.re.FindAllStringSubmatch(text, -1) {
		if s.accept != nil {
			if value, ok := s.accept(text, match); ok {
				return value, true
			}
			continue
		}
		if len(match) > 1 {
			if value := strings.TrimSpace(match[1]); value != "" {
				return value, true
			}
		}
	}
	return "", false
}

// runChain tries each strategy in order and returns the first hit along with
// the name of the strategy that produced it.
func runChain(chain []strategy, text string) (string, string, bool) {
	for _, s := range chain {
		if value, ok := s.attempt(text); ok {
			return value, s.name, true
		}
	}
	return "", "", false
}
