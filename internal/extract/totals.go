package extract

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"poscan/pkg/models"
)

// Totals field chains. Each label tolerates the misreadings seen in
// practice: "Tx" for "Tax", "Befere"/"Bafore" for "Before", pipe and
// bracket noise between label and value.
var (
	totalBeforeChain = []strategy{
		{name: "before-discount", re: regexp.MustCompile(`(?i)(?:Total\s+)?B[ae]f[oe]re\s*Disc[^\d\n]*([\d][\d.,]*)`)},
		{name: "subtotal-label", re: regexp.MustCompile(`(?i)Sub\s*-?\s*total[^\d\n]*([\d][\d.,]*)`)},
		{name: "tbd-currency", re: regexp.MustCompile(`(?i)B[ae]f[oe]re[^\n]*?(?:AUD|USD|EUR)\s*([\d][\d.,]*)`)},
	}

	freightChain = []strategy{
		{name: "freight-label", re: regexp.MustCompile(`(?i)Freight[^\d\n]*([\d][\d.,]*)`)},
		{name: "shipping-label", re: regexp.MustCompile(`(?i)Shipping[^\d\n]*([\d][\d.,]*)`)},
	}

	taxChain = []strategy{
		{name: "tax-currency", re: regexp.MustCompile(`(?i)\bT[aix]+x?\s+[A-Z]{3}\s+([\d][\d.,]*)`)},
		{name: "tax-label", re: regexp.MustCompile(`(?i)(?:Tax|GST|VAT)[^\d\n]*([\d][\d.,]*)`)},
	}

	dueChain = []strategy{
		{name: "total-due", re: regexp.MustCompile(`(?i)Total\s*(?:Payment\s*|Amount\s*)?Due[^\d\n]*([\d][\d.,]*)`)},
		{name: "amount-due", re: regexp.MustCompile(`(?i)Amount\s*Due[^\d\n]*([\d][\d.,]*)`)},
		{name: "grand-total", re: regexp.MustCompile(`(?i)Grand\s*Total[^\d\n]*([\d][\d.,]*)`)},
	}

	discountRe      = regexp.MustCompile(`(?i)Discount\s*[^\d\n]*([\d][\d.,]*)`)
	beforePrefixRe  = regexp.MustCompile(`(?i)B[ae]f[oe]re\s*$`)
	backfillPriceRe = regexp.MustCompile(`(\d{2,4})[.,]00[05]?\s*(?:\$|0\.00|NY|P1)`)
)

// chainAmount runs a strategy chain and parses the winning match as an
// amount. A nil return means the field was not found or not parseable.
func chainAmount(chain []strategy, text string) *models.Money {
	raw, _, ok := runChain(chain, text)
	if !ok {
		return nil
	}
	amt, err := parseAmount(raw)
	if err != nil {
		return nil
	}
	return &models.Money{Amount: amt}
}

// extractDiscount must not confuse "Discount" with the "Before Discount"
// subtotal line, so each match is checked against the text immediately
// preceding it.
func extractDiscount(text string) *models.Money {
	for _, loc := range discountRe.FindAllStringSubmatchIndex(text, -1) {
		start := loc[0]
		from := start - 12
		if from < 0 {
			from = 0
		}
		if beforePrefixRe.MatchString(text[from:start]) {
			continue
		}
		amt, err := parseAmount(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		return &models.Money{Amount: amt}
	}
	return nil
}

// extractTotals reads the totals block fields independently; missing or
// implausible values are repaired afterwards by reconcile.
func extractTotals(text string) models.Totals {
	return models.Totals{
		TotalBeforeDiscount: chainAmount(totalBeforeChain, text),
		Discount:            extractDiscount(text),
		Freight:             chainAmount(freightChain, text),
		Tax:                 chainAmount(taxChain, text),
		TotalDue:            chainAmount(dueChain, text),
	}
}

// reconcile cross-checks the totals against the line items and against each
// other, preferring arithmetically consistent values over raw OCR reads.
// After it returns, subtotal, tax and total due are always set; discount
// and freight remain nil when absent.
func reconcile(items []models.LineItem, t *models.Totals, d Defaults) {
	lineSum := decimal.Zero
	for _, it := range items {
		lineSum = lineSum.Add(it.LineTotal.Amount)
	}

	// A single item with no readable price can inherit its total from the
	// subtotal line when that is the only one that survived OCR, splitting
	// it back into unit price and quantity when a price token is visible.
	if len(items) == 1 && items[0].LineTotal.Amount.IsZero() &&
		t.TotalBeforeDiscount != nil && t.TotalBeforeDiscount.Amount.IsPositive() {
		backfillItem(&items[0], t.TotalBeforeDiscount.Amount, d)
		lineSum = items[0].LineTotal.Amount
	}

	if lineSum.IsPositive() {
		switch {
		case t.TotalBeforeDiscount == nil,
			t.TotalBeforeDiscount.Amount.GreaterThan(lineSum.Mul(decimal.NewFromInt(10))):
			t.TotalBeforeDiscount = &models.Money{Amount: lineSum}
		default:
			if relativeDelta(t.TotalBeforeDiscount.Amount, lineSum).LessThan(decimal.NewFromFloat(0.05)) {
				t.TotalBeforeDiscount = &models.Money{Amount: lineSum}
			}
		}
	}
	if t.TotalBeforeDiscount == nil {
		t.TotalBeforeDiscount = &models.Money{Amount: lineSum}
	}

	subtotal := t.TotalBeforeDiscount.Amount
	expectedTax := subtotal.Mul(d.TaxRate).Round(2)
	switch {
	case t.Tax == nil, t.Tax.Amount.GreaterThan(subtotal):
		t.Tax = &models.Money{Amount: expectedTax}
	default:
		if expectedTax.IsPositive() && relativeDelta(t.Tax.Amount, expectedTax).LessThan(decimal.NewFromFloat(0.05)) {
			t.Tax = &models.Money{Amount: expectedTax}
		}
	}

	expectedDue := subtotal.Add(t.Tax.Amount)
	switch {
	case t.TotalDue == nil, t.TotalDue.Amount.GreaterThan(subtotal.Mul(decimal.NewFromInt(2))):
		t.TotalDue = &models.Money{Amount: expectedDue}
	default:
		if expectedDue.IsPositive() && relativeDelta(t.TotalDue.Amount, expectedDue).LessThan(decimal.NewFromFloat(0.02)) {
			t.TotalDue = &models.Money{Amount: expectedDue}
		}
	}
}

// backfillItem distributes a known row total onto an item that lost its
// price to OCR. A price-looking token next to a currency or tax marker
// recovers the unit price and implies the quantity; otherwise the total
// becomes the unit price of a single unit.
func backfillItem(item *models.LineItem, total decimal.Decimal, d Defaults) {
	item.LineTotal = models.Money{Amount: total}

	if m := backfillPriceRe.FindStringSubmatch(item.Description); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			unit := decimal.NewFromInt(int64(n))
			qty := total.Div(unit).Round(0)
			if qty.IsPositive() {
				item.UnitPrice = models.Money{Amount: unit}
				item.Quantity = int(qty.IntPart())
				return
			}
		}
	}

	if !d.SentinelPrice.IsZero() && total.Mod(d.SentinelPrice).IsZero() {
		qty := total.Div(d.SentinelPrice)
		if qty.IsPositive() && qty.LessThanOrEqual(decimal.NewFromInt(100)) {
			item.UnitPrice = models.Money{Amount: d.SentinelPrice}
			item.Quantity = int(qty.IntPart())
			return
		}
	}

	item.UnitPrice = models.Money{Amount: total}
	item.Quantity = 1
}

// relativeDelta returns |a-b| / b, or zero when b is zero.
func relativeDelta(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Sub(b).Abs().Div(b)
}

// stampCurrency writes the document currency onto every money field so the
// payload is internally consistent.
func stampCurrency(p *models.Payload) {
	cur := p.Header.Currency
	for i := range p.LineItems {
		p.LineItems[i].UnitPrice.Currency = cur
		p.LineItems[i].LineTotal.Currency = cur
	}
	for _, m := range []*models.Money{
		p.Totals.TotalBeforeDiscount,
		p.Totals.Discount,
		p.Totals.Freight,
		p.Totals.Tax,
		p.Totals.TotalDue,
	} {
		if m != nil {
			m.Currency = cur
		}
	}
}
