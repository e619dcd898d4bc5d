package extract

import (
	"regexp"
	"strconv"
	"strings"

	"poscan/pkg/models"
)

// vendorCorrection repairs the recurring OCR misread of the organization
// name ("Acre", "Acreé", ...).
var vendorCorrection = regexp.MustCompile(`(?i)\bAcr[eé]+\b`)

// vendorChain is anchored on the "Name" label, tolerating the known OCR
// misreadings of that label, then degrades through generic vendor labels
// down to a bare company-suffix scan.
var vendorChain = []strategy{
	{name: "name-label-suffix", re: regexp.MustCompile(`(?i)(?:Name|Neme|Narne)\s+([A-Za-z][A-Za-z\s]+?(?:Associates?|Inc\.?|Ltd\.?|LLC|Corp\.?))`)},
	{name: "vendor-label", re: regexp.MustCompile(`(?i)Vendor[:\s]+([A-Za-z][A-Za-z\s&.,]+?)(?:\s{2,}|\n|$)`)},
	{name: "billto-label", re: regexp.MustCompile(`(?i)(?:Bill\s*To|Supplier)[:\s]+([A-Za-z][A-Za-z\s&.,]+?)(?:\s{2,}|\n|$)`)},
	{name: "name-label-loose", re: regexp.MustCompile(`Name\s+([A-Za-z]+\s+[A-Za-z]+)`)},
	{name: "suffix-only", re: regexp.MustCompile(`([A-Z][a-z]+\s+(?:Associates?|Inc\.?|Ltd\.?|LLC))`)},
}

// poChain is anchored on the "Primary" label shown next to the PO number on
// this screen family. OCR routinely smears stray brackets, pipes and
// currency-like glyphs between the label and the numeral, so anything that
// is not a digit is skipped. Matches are constrained to 3-5 digit numbers
// to avoid picking up unrelated numerals.
var poChain = []strategy{
	{name: "primary-label", re: regexp.MustCompile(`(?i)Primary[^0-9\n]*(\d{3,5})`), accept: acceptPONumber},
	{name: "no-primary-label", re: regexp.MustCompile(`(?i)No\.?\s*Primary[^0-9\n]*(\d{3,5})`), accept: acceptPONumber},
	{name: "order-label", re: regexp.MustCompile(`(?i)(?:PO|Purchase\s*Order|Order)\s*(?:#|No\.?|Number)?\s*[:\s]*(\d{3,5})`), accept: acceptPONumber},
	{name: "bracket-noise", re: regexp.MustCompile(`[|{\[~](\d{3})\b`), accept: acceptPONumber},
}

// acceptPONumber rejects candidates that are really date components
// elsewhere in the text.
func acceptPONumber(text string, match []string) (string, bool) {
	num := match[1]
	if num == "" {
		return "", false
	}
	dateLike := regexp.MustCompile(regexp.QuoteMeta(num) + `\.\d{1,2}\.\d{2,4}`)
	if dateLike.MatchString(text) {
		return "", false
	}
	return num, true
}

var (
	isolatedTripleRe = regexp.MustCompile(`\b\d{3}\b`)
	ocrWordTailRe    = regexp.MustCompile(`(?i)[a-z]e\s+$`)
)

// fallbackPONumber is the last resort: the first isolated 3-digit number
// that is not adjacent to a decimal point (which would make it a date or
// amount component) and not glued to an OCR-mangled word.
func fallbackPONumber(text string) string {
	for _, loc := range isolatedTripleRe.FindAllStringIndex(text, -1) {
		num := text[loc[0]:loc[1]]
		if loc[0] > 0 && text[loc[0]-1] == '.' {
			continue
		}
		if loc[1] < len(text) && text[loc[1]] == '.' {
			continue
		}
		if component := regexp.MustCompile(regexp.QuoteMeta(num) + `\.\d{1,2}`); component.MatchString(text) {
			continue
		}
		if ocrWordTailRe.MatchString(text[:loc[0]]) {
			continue
		}
		if n, err := strconv.Atoi(num); err != nil || n < 100 {
			continue
		}
		return num
	}
	return ""
}

// Labeled dates are preferred; label matching is case-insensitive and
// tolerates pipe/colon noise between label and value.
var (
	postingDateRe  = regexp.MustCompile(`(?i)Posting\s*Date\s*[:\s|]*(\d{1,2}[./]\d{1,2}[./]\d{2,4})`)
	documentDateRe = regexp.MustCompile(`(?i)Document\s*Date\s*[:\s|]*(\d{1,2}[./]\d{1,2}[./]\d{2,4})`)
	deliveryDateRe = regexp.MustCompile(`(?i)Delivery\s*Date\s*[:\s|]*(\d{1,2}[./]\d{1,2}[./]\d{2,4})`)

	genericDateRes = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{2,4}`),
		regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
		regexp.MustCompile(`\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
	}
)

// extractHeader pulls the document-level fields out of the OCR text.
func extractHeader(text string, d Defaults) models.Header {
	header := models.Header{
		Currency: detectCurrency(text, d.Currency),
	}

	if vendor, _, ok := runChain(vendorChain, text); ok {
		header.VendorName = vendorCorrection.ReplaceAllString(vendor, "Acme")
	} else {
		header.VendorName = d.VendorName
	}

	header.PONumber, _, _ = runChain(poChain, text)

	posting, due := extractDates(text)
	header.PostingDate = posting
	header.DueDate = due

	return header
}

// extractDates returns the normalized posting and due dates. When no labeled
// date is found the first two generic date-like matches in document order are
// used; the due date defaults to the posting date when no second date exists.
func extractDates(text string) (string, string) {
	var generic []string
	for _, re := range genericDateRes {
		generic = append(generic, re.FindAllString(text, -1)...)
	}

	posting := ""
	if m := postingDateRe.FindStringSubmatch(text); m != nil {
		posting = m[1]
	} else if m := documentDateRe.FindStringSubmatch(text); m != nil {
		posting = m[1]
	} else if len(generic) > 0 {
		posting = generic[0]
	}

	due := ""
	if m := deliveryDateRe.FindStringSubmatch(text); m != nil {
		due = m[1]
	} else if len(generic) > 1 {
		due = generic[1]
	} else {
		due = posting
	}

	return normalizeDate(posting), normalizeDate(due)
}

// detectCurrency is a simple keyword containment test, in priority order.
// A bare dollar sign reads as USD; anything undetected falls back to the
// configured default.
func detectCurrency(text, fallback string) string {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, models.CurrencyAUD):
		return models.CurrencyAUD
	case strings.Contains(upper, models.CurrencyUSD):
		return models.CurrencyUSD
	case strings.Contains(upper, models.CurrencyEUR):
		return models.CurrencyEUR
	case strings.Contains(text, "$"):
		return models.CurrencyUSD
	}
	return fallback
}
