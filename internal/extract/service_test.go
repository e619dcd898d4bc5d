package extract

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	text        string
	headerText  string
	headerCalls int
}

func (f *fakeSource) ConsolidatedText(_ context.Context, _ image.Image) (string, error) {
	return f.text, nil
}

func (f *fakeSource) HeaderRegionText(_ context.Context, _ image.Image) (string, error) {
	f.headerCalls++
	return f.headerText, nil
}

const screenText = "Purchase Order\n" +
	"Neme Acre Associates\n" +
	"No. Primary ¥|)803\n" +
	"Posting Date 27.01.26\n" +
	"400001 )B. Officeprint 1420 5 5 AUD 500.000 AUD 0.00 AUD 2,500.000 P1\n" +
	"Total Befere Discount AUD 2,500.000\n" +
	"Tx AUD 258.008\n" +
	"Total Due AUD 2,750.000\n"

func TestServiceExtractImage(t *testing.T) {
	src := &fakeSource{text: screenText}
	svc := NewService(src, testDefaults)

	payload, err := svc.ExtractImage(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, payload.SchemaVersion)
	assert.Equal(t, "Acme Associates", payload.Header.VendorName)
	assert.Equal(t, "803", payload.Header.PONumber)
	assert.Equal(t, "2026-01-27", payload.Header.PostingDate)
	assert.Equal(t, "AUD", payload.Header.Currency)

	require.Len(t, payload.LineItems, 1)
	it := payload.LineItems[0]
	assert.Equal(t, "A00001", it.ItemNo)
	assert.Equal(t, "J.B. Officeprint 1420", it.Description)
	assert.Equal(t, 5, it.Quantity)
	assert.Equal(t, "500.00", it.UnitPrice.Amount.StringFixed(2))
	assert.Equal(t, "AUD", it.UnitPrice.Currency)
	assert.Equal(t, "2500.00", it.LineTotal.Amount.StringFixed(2))

	assert.Equal(t, "2500.00", moneyString(payload.Totals.TotalBeforeDiscount))
	assert.Equal(t, "250.00", moneyString(payload.Totals.Tax))
	assert.Equal(t, "2750.00", moneyString(payload.Totals.TotalDue))
	assert.Equal(t, "AUD", payload.Totals.TotalDue.Currency)

	// header fields were present, so no second pass was needed
	assert.Zero(t, src.headerCalls)
}

func TestServiceRetriesHeaderRegion(t *testing.T) {
	src := &fakeSource{
		text:       "garbled body\nA00001 Toner Black 2 2 AUD 50.000 AUD 100.000 P1\n",
		headerText: "Primary 803\nPosting Date 27.01.26\n",
	}
	svc := NewService(src, testDefaults)

	payload, err := svc.ExtractImage(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, src.headerCalls)
	assert.Equal(t, "803", payload.Header.PONumber)
	assert.Equal(t, "2026-01-27", payload.Header.PostingDate)
}

func TestServiceFallbackPONumber(t *testing.T) {
	src := &fakeSource{
		text: "Posting Date 27.01.26\nA00001 Toner Black 2 2 AUD 50.000 AUD 100.000 P1\ndoc 456 end\n",
	}
	svc := NewService(src, testDefaults)

	payload, err := svc.ExtractImage(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, src.headerCalls)
	assert.Equal(t, "456", payload.Header.PONumber)
}

func TestServiceEmptyText(t *testing.T) {
	svc := NewService(&fakeSource{text: "   \n  "}, testDefaults)

	_, err := svc.ExtractImage(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestParseDeterministic(t *testing.T) {
	a := Parse(screenText, testDefaults)
	b := Parse(screenText, testDefaults)
	assert.Equal(t, a, b)
}
