package extract

import (
	"context"
	"image"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"poscan/internal/logger"
	"poscan/pkg/models"
)

// Defaults supplies the fallback values used when a field cannot be read
// from the text.
type Defaults struct {
	Currency      string
	VendorName    string
	TaxRate       decimal.Decimal
	SentinelPrice decimal.Decimal
}

// TextSource produces OCR text from a loaded image. HeaderRegionText reads
// only the upper-right corner of the page, used as a retry when the
// full-page pass misses the document identifiers.
type TextSource interface {
	ConsolidatedText(ctx context.Context, img image.Image) (string, error)
	HeaderRegionText(ctx context.Context, img image.Image) (string, error)
}

// Parse extracts a complete payload from OCR text. It is pure and
// deterministic: the same text and defaults always produce the same payload.
func Parse(text string, d Defaults) models.Payload {
	payload := models.Payload{
		SchemaVersion: models.SchemaVersion,
		Header:        extractHeader(text, d),
		LineItems:     extractLineItems(text, d),
	}

	totals := extractTotals(text)
	reconcile(payload.LineItems, &totals, d)
	payload.Totals = totals

	stampCurrency(&payload)
	return payload
}

// Service drives extraction over an OCR text source.
type Service struct {
	src      TextSource
	defaults Defaults
	log      zerolog.Logger
}

// NewService builds an extraction service over an OCR source.
func NewService(src TextSource, d Defaults) *Service {
	return &Service{
		src:      src,
		defaults: d,
		log:      logger.WithComponent("extract"),
	}
}

// ExtractImage runs OCR over the image and parses the result. When the
// document number or posting date is missing from the full-page text, a
// second pass over the header region of the page is appended and the text
// is reparsed. A document number that still cannot be found is filled by a
// positional scan as the last resort.
func (s *Service) ExtractImage(ctx context.Context, img image.Image) (models.Payload, error) {
	const op = "ExtractImage"

	text, err := s.src.ConsolidatedText(ctx, img)
	if err != nil {
		return models.Payload{}, WrapExtractionError(op, err, "consolidated pass")
	}
	if strings.TrimSpace(text) == "" {
		return models.Payload{}, WrapExtractionError(op, ErrNoText, "")
	}

	payload := Parse(text, s.defaults)

	if payload.Header.PONumber == "" || payload.Header.PostingDate == "" {
		s.log.Debug().
			Str("po_number", payload.Header.PONumber).
			Str("posting_date", payload.Header.PostingDate).
			Msg("header fields missing, retrying with header region")

		headerText, herr := s.src.HeaderRegionText(ctx, img)
		if herr != nil {
			s.log.Warn().Err(herr).Msg("header region pass failed")
		} else if strings.TrimSpace(headerText) != "" {
			payload = Parse(text+"\n"+headerText, s.defaults)
			text = text + "\n" + headerText
		}
	}

	if payload.Header.PONumber == "" {
		if num := fallbackPONumber(text); num != "" {
			s.log.Debug().Str("po_number", num).Msg("document number recovered by positional scan")
			payload.Header.PONumber = num
		}
	}

	s.log.Info().
		Str("vendor", payload.Header.VendorName).
		Str("po_number", payload.Header.PONumber).
		Int("line_items", len(payload.LineItems)).
		Str("total_due", payload.Totals.TotalDue.Amount.StringFixed(2)).
		Msg("extraction complete")

	return payload, nil
}
