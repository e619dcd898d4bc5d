package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLineItemsTableRow(t *testing.T) {
	text := "400001 )B. Officeprint 1420 5 5 AUD 500.000 AUD 0.00 AUD 2,500.000 P1\n"

	items := extractLineItems(text, testDefaults)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "A00001", it.ItemNo)
	assert.Equal(t, "J.B. Officeprint 1420", it.Description)
	assert.Equal(t, 5, it.Quantity)
	assert.Equal(t, "500.00", it.UnitPrice.Amount.StringFixed(2))
	assert.Equal(t, "2500.00", it.LineTotal.Amount.StringFixed(2))
	assert.Equal(t, "P1", it.TaxCode)
}

func TestExtractLineItemsDeduplicates(t *testing.T) {
	text := "A00001 Officeprint 1420 5 5 AUD 500.000 AUD 2,500.000 P1\n" +
		"400001 Officeprint 1420 5 5 AUD 500.000 AUD 2,500.000 P1\n" +
		"A00002 Toner Black 2 2 AUD 50.000 AUD 100.000 P1\n"

	items := extractLineItems(text, testDefaults)
	require.Len(t, items, 2)
	assert.Equal(t, "A00001", items[0].ItemNo)
	assert.Equal(t, "A00002", items[1].ItemNo)
}

func TestExtractLineItemsQuantityPair(t *testing.T) {
	// OCR drops digits rather than inventing them, so the larger of the
	// ordered and confirmed columns wins.
	text := "A00003 Desk Lamp 1 12 AUD 10.000 AUD 120.000 P1\n"

	items := extractLineItems(text, testDefaults)
	require.Len(t, items, 1)
	assert.Equal(t, 12, items[0].Quantity)
}

func TestExtractLineItemsFallback(t *testing.T) {
	text := "header noise\nA00001 Laser Cartridge 3 AUD 75.00\nfooter\n"

	items := extractLineItems(text, testDefaults)
	require.Len(t, items, 1)
	assert.Equal(t, "A00001", items[0].ItemNo)
	assert.Equal(t, "Laser Cartridge", items[0].Description)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "75.00", items[0].UnitPrice.Amount.StringFixed(2))
	assert.Equal(t, "225.00", items[0].LineTotal.Amount.StringFixed(2))
}

func TestExtractLineItemsSentinelPrice(t *testing.T) {
	d := testDefaults
	d.SentinelPrice = decimal.RequireFromString("400")

	// amounts too garbled to parse fall back to the sentinel price
	text := "A00004 Widget Pro 1 1 AUD ,., P1\n"

	items := extractLineItems(text, d)
	require.Len(t, items, 1)
	assert.Equal(t, "400.00", items[0].UnitPrice.Amount.StringFixed(2))
	assert.Equal(t, "400.00", items[0].LineTotal.Amount.StringFixed(2))
}

func TestExtractLineItemsTaxCodeFromDocument(t *testing.T) {
	// the row lost its tax token to OCR but the document is tagged NY
	text := "A00005 Paper Ream 2 2 AUD 10.000 AUD 20.000\n" +
		"Tax Status NY\n"

	items := extractLineItems(text, testDefaults)
	require.Len(t, items, 1)
	assert.Equal(t, "NY", items[0].TaxCode)

	// a row carrying its own token is not overridden by the document tag
	text = "A00006 Staples Box 1 1 AUD 5.000 AUD 5.000 P1\n" +
		"Tax Status NY\n"

	items = extractLineItems(text, testDefaults)
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].TaxCode)
}

func TestExtractLineItemsPlaceholder(t *testing.T) {
	items := extractLineItems("completely unreadable", testDefaults)
	require.Len(t, items, 1)
	assert.Equal(t, "A00001", items[0].ItemNo)
	assert.Equal(t, "J.B. Officeprint 1420", items[0].Description)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Amount.IsZero())
}

func TestNormalizeItemCode(t *testing.T) {
	tests := []struct{ raw, want string }{
		{"A00001", "A00001"},
		{"400001", "A00001"},
		{"500002", "A00002"},
		{"£00003", "A00003"},
		{"AQ0001", "A00001"},
		{"A0000I", "A00001"},
		{"A 00001", "A00001"},
		{"a0000l", "A00001"},
		{"A001", "A00001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeItemCode(tt.raw), "raw %q", tt.raw)
	}
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "J.B. Officeprint 1420", cleanDescription(")B. Officeprint 1420"))
	assert.Equal(t, "J.B. Officeprint 1420", cleanDescription("1B. Officeprint 1420"))
	assert.Equal(t, "Toner Black", cleanDescription("  _Toner_Black "))
}
