// Package models defines the structured payload extracted from a purchase
// order screenshot. The Payload type is the sole contract handed to the PDF
// rendering layer; its JSON field names and nesting are fixed.
package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SchemaVersion identifies the payload JSON schema. Bump on any change to
// field names or nesting.
const SchemaVersion = 1

// Supported currency codes. Anything undetected falls back to AUD, which is
// what the source ERP layout family uses.
const (
	CurrencyAUD = "AUD"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// Tax codes that appear on this PO layout family.
const (
	TaxCodeP1 = "P1"
	TaxCodeNY = "NY"
)

// Money is a currency-tagged amount. Amount is never negative in this domain.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney builds a Money value.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// MarshalJSON emits the amount as a plain JSON number with two decimal
// places, matching the downstream renderer's expectations. The default
// decimal marshalling would quote the value.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
	}{
		Amount:   json.Number(m.Amount.StringFixed(2)),
		Currency: m.Currency,
	})
}

// UnmarshalJSON accepts the amount as either a JSON number or a string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Amount != "" {
		amount, err := decimal.NewFromString(raw.Amount.String())
		if err != nil {
			return err
		}
		m.Amount = amount
	} else {
		m.Amount = decimal.Zero
	}
	m.Currency = raw.Currency
	return nil
}

// Header holds the document-level fields of the purchase order. It is
// constructed once per extraction run and not mutated afterwards. PONumber
// and the dates may be empty when OCR could not locate them; callers should
// treat that as a prompt for manual correction, not as an error.
type Header struct {
	VendorName  string `json:"vendor_name"`
	PONumber    string `json:"po_number"`
	PostingDate string `json:"posting_date"`
	DueDate     string `json:"due_date"`
	Currency    string `json:"currency"`
}

// LineItem is one row of the purchase order. ItemNo is normalized to the
// canonical "A" prefix plus a five-digit code (e.g. "A00001") and is unique
// within a payload. LineTotal equals Quantity * UnitPrice.Amount unless the
// totals reconciler back-filled it from a document total, in which case
// LineTotal is authoritative and UnitPrice/Quantity are derived.
type LineItem struct {
	ItemNo      string `json:"item_no"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
	TaxCode     string `json:"tax_code"`
	LineTotal   Money  `json:"line_total"`
}

// Totals holds the document totals block. Fields are nil when the value was
// neither extracted nor derivable.
type Totals struct {
	TotalBeforeDiscount *Money `json:"total_before_discount"`
	Discount            *Money `json:"discount"`
	Freight             *Money `json:"freight"`
	Tax                 *Money `json:"tax"`
	TotalDue            *Money `json:"total_payment_due"`
}

// Payload is the complete extraction result and the only artifact crossing
// the boundary to PDF rendering. VendorKey is filled in by the invoice
// pipeline after registry matching; extraction leaves it empty.
type Payload struct {
	SchemaVersion int        `json:"schema_version"`
	VendorKey     string     `json:"vendor_key,omitempty"`
	Header        Header     `json:"header"`
	LineItems     []LineItem `json:"line_items"`
	Totals        Totals     `json:"totals"`
}
