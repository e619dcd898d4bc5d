package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testDefaults = Defaults{
	Currency:   "AUD",
	VendorName: "Acme Associates",
	TaxRate:    decimal.RequireFromString("0.10"),
}

func TestExtractHeader(t *testing.T) {
	text := "Purchase Order\n" +
		"Neme Acre Associates\n" +
		"No. Primary ¥|)803\n" +
		"Posting Date 27.01.26\n" +
		"Due Date 27.01.26\n" +
		"Total AUD 2,750.00\n"

	h := extractHeader(text, testDefaults)

	assert.Equal(t, "Acme Associates", h.VendorName)
	assert.Equal(t, "803", h.PONumber)
	assert.Equal(t, "2026-01-27", h.PostingDate)
	assert.Equal(t, "2026-01-27", h.DueDate)
	assert.Equal(t, "AUD", h.Currency)
}

func TestExtractHeaderDefaultsWhenUnreadable(t *testing.T) {
	h := extractHeader("garbled text with nothing useful", testDefaults)

	assert.Equal(t, "Acme Associates", h.VendorName)
	assert.Empty(t, h.PONumber)
	assert.Empty(t, h.PostingDate)
	assert.Equal(t, "AUD", h.Currency)
}

func TestExtractHeaderRejectsDateAsPONumber(t *testing.T) {
	// 803 also appears as a date component elsewhere; the chain must not
	// take it, and the order label supplies the real number.
	text := "Primary 803\nrun 803.01.26\nOrder No. 6721\n"

	h := extractHeader(text, testDefaults)
	assert.Equal(t, "6721", h.PONumber)
}

func TestFallbackPONumber(t *testing.T) {
	assert.Equal(t, "456", fallbackPONumber("totals 28.01 doc 456 end"))

	// adjacent decimal point marks an amount or date component
	assert.Empty(t, fallbackPONumber("amount 803.01 only"))

	// below the plausible floor
	assert.Empty(t, fallbackPONumber("doc 099 only"))
}

func TestDetectCurrency(t *testing.T) {
	assert.Equal(t, "AUD", detectCurrency("Total AUD 100", "USD"))
	assert.Equal(t, "USD", detectCurrency("Total usd 100", "AUD"))
	assert.Equal(t, "EUR", detectCurrency("Total EUR 100", "AUD"))
	assert.Equal(t, "USD", detectCurrency("Total $100", "AUD"))
	assert.Equal(t, "AUD", detectCurrency("Total 100", "AUD"))
}
