package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyMarshalJSON(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("2500"), CurrencyAUD)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	// the amount must be a plain JSON number with two decimals, not a string
	assert.JSONEq(t, `{"amount":2500.00,"currency":"AUD"}`, string(data))
	assert.Contains(t, string(data), `"amount":2500.00`)
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":2500.00,"currency":"AUD"}`), &m))
	assert.Equal(t, "2500.00", m.Amount.StringFixed(2))
	assert.Equal(t, "AUD", m.Currency)

	// string amounts are accepted too
	var s Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"250.50","currency":"USD"}`), &s))
	assert.Equal(t, "250.50", s.Amount.StringFixed(2))

	var zero Money
	require.NoError(t, json.Unmarshal([]byte(`{"currency":"EUR"}`), &zero))
	assert.True(t, zero.Amount.IsZero())
}

func TestPayloadRoundTrip(t *testing.T) {
	tbd := NewMoney(decimal.RequireFromString("2500"), CurrencyAUD)
	tax := NewMoney(decimal.RequireFromString("250"), CurrencyAUD)
	due := NewMoney(decimal.RequireFromString("2750"), CurrencyAUD)

	p := Payload{
		SchemaVersion: SchemaVersion,
		VendorKey:     "acme_associates",
		Header: Header{
			VendorName:  "Acme Associates",
			PONumber:    "803",
			PostingDate: "2026-01-27",
			DueDate:     "2026-01-27",
			Currency:    CurrencyAUD,
		},
		LineItems: []LineItem{{
			ItemNo:      "A00001",
			Description: "J.B. Officeprint 1420",
			Quantity:    5,
			UnitPrice:   NewMoney(decimal.RequireFromString("500"), CurrencyAUD),
			TaxCode:     TaxCodeP1,
			LineTotal:   NewMoney(decimal.RequireFromString("2500"), CurrencyAUD),
		}},
		Totals: Totals{
			TotalBeforeDiscount: &tbd,
			Tax:                 &tax,
			TotalDue:            &due,
		},
	}

	data, err := json.MarshalIndent(p, "", "  ")
	require.NoError(t, err)

	// absent optional totals serialize as explicit nulls
	assert.Contains(t, string(data), `"discount": null`)
	assert.Contains(t, string(data), `"freight": null`)
	assert.Contains(t, string(data), `"total_payment_due"`)
	assert.Contains(t, string(data), `"schema_version": 1`)

	var back Payload
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p.Header, back.Header)
	assert.Equal(t, p.VendorKey, back.VendorKey)
	require.Len(t, back.LineItems, 1)
	assert.True(t, back.LineItems[0].LineTotal.Amount.Equal(p.LineItems[0].LineTotal.Amount))
	require.NotNil(t, back.Totals.TotalDue)
	assert.Equal(t, "2750.00", back.Totals.TotalDue.Amount.StringFixed(2))
	assert.Nil(t, back.Totals.Discount)
}
