package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poscan/pkg/models"
)

func moneyString(m *models.Money) string {
	if m == nil {
		return "<nil>"
	}
	return m.Amount.StringFixed(2)
}

func testItems(total string) []models.LineItem {
	amt, _ := decimal.NewFromString(total)
	return []models.LineItem{{
		ItemNo:      "A00001",
		Description: "J.B. Officeprint 1420",
		Quantity:    5,
		UnitPrice:   models.Money{Amount: amt.Div(decimal.NewFromInt(5))},
		LineTotal:   models.Money{Amount: amt},
		TaxCode:     models.TaxCodeP1,
	}}
}

func TestExtractTotals(t *testing.T) {
	text := "Total Befere Discount AUD 2,500.000\n" +
		"Freight AUD 0.00\n" +
		"Tx AUD 258.008\n" +
		"Total Due AUD 2,750.000\n"

	totals := extractTotals(text)
	assert.Equal(t, "2500.00", moneyString(totals.TotalBeforeDiscount))
	assert.Equal(t, "0.00", moneyString(totals.Freight))
	assert.Equal(t, "258.01", moneyString(totals.Tax))
	assert.Equal(t, "2750.00", moneyString(totals.TotalDue))
	assert.Nil(t, totals.Discount)
}

func TestExtractDiscountIgnoresSubtotalLabel(t *testing.T) {
	text := "Total Before Discount AUD 2,500.00\nDiscount AUD 100.00\n"

	d := extractDiscount(text)
	require.NotNil(t, d)
	assert.Equal(t, "100.00", d.Amount.StringFixed(2))

	assert.Nil(t, extractDiscount("Total Before Discount AUD 2,500.00\n"))
}

func TestReconcileRepairsNoisyTotals(t *testing.T) {
	items := testItems("2500")
	totals := models.Totals{
		TotalBeforeDiscount: &models.Money{Amount: decimal.RequireFromString("2500")},
		Tax:                 &models.Money{Amount: decimal.RequireFromString("258.008")},
		TotalDue:            &models.Money{Amount: decimal.RequireFromString("2750")},
	}

	reconcile(items, &totals, testDefaults)

	assert.Equal(t, "2500.00", moneyString(totals.TotalBeforeDiscount))
	assert.Equal(t, "250.00", moneyString(totals.Tax))
	assert.Equal(t, "2750.00", moneyString(totals.TotalDue))
}

func TestReconcileFillsMissingFields(t *testing.T) {
	items := testItems("3000")
	totals := models.Totals{}

	reconcile(items, &totals, testDefaults)

	assert.Equal(t, "3000.00", moneyString(totals.TotalBeforeDiscount))
	assert.Equal(t, "300.00", moneyString(totals.Tax))
	assert.Equal(t, "3300.00", moneyString(totals.TotalDue))
	assert.Nil(t, totals.Discount)
	assert.Nil(t, totals.Freight)
}

func TestReconcileRejectsImplausibleDue(t *testing.T) {
	items := testItems("2500")
	totals := models.Totals{
		TotalDue: &models.Money{Amount: decimal.RequireFromString("99999")},
	}

	reconcile(items, &totals, testDefaults)
	assert.Equal(t, "2750.00", moneyString(totals.TotalDue))
}

func TestReconcileBackfillsSingleItemFromSubtotal(t *testing.T) {
	items := []models.LineItem{{
		ItemNo:      "A00001",
		Description: "J.B. Officeprint 1420",
		Quantity:    1,
	}}
	totals := models.Totals{
		TotalBeforeDiscount: &models.Money{Amount: decimal.RequireFromString("2000")},
	}

	d := testDefaults
	d.SentinelPrice = decimal.RequireFromString("400")
	reconcile(items, &totals, d)

	assert.Equal(t, "2000.00", items[0].LineTotal.Amount.StringFixed(2))
	assert.Equal(t, "400.00", items[0].UnitPrice.Amount.StringFixed(2))
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "2200.00", moneyString(totals.TotalDue))
}
