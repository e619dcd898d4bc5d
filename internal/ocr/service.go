// Package ocr turns a purchase-order screenshot into one consolidated text
// corpus for the heuristic extraction pipeline.
//
// The package runs the recognition engine several times over the same image:
// once per page-segmentation mode over the raw image, the same set of passes
// over a preprocessed variant, and, on request, once more over the upper-right
// header region. All outputs are concatenated; redundancy raises the chance
// that any given field is legible in at least one pass.
//
// Three engine backends are available:
//   - tesseract: local Tesseract via gosseract (default)
//   - vision: Google Cloud Vision document text detection
//   - documentai: Google Document AI OCR processor
//
// The cloud backends expect either GOOGLE_APPLICATION_CREDENTIALS (path to a
// service account JSON file) or GOOGLE_CREDENTIALS (inline JSON) in the
// environment.
package ocr

import (
	"context"
	"fmt"
	"image"
)

// PageSegMode selects how the recognition engine partitions the image into
// text regions before reading it. Values match Tesseract's PSM numbering.
type PageSegMode int

const (
	// PSMAuto is fully automatic page segmentation.
	PSMAuto PageSegMode = 3
	// PSMSingleColumn assumes a single column of text of variable sizes.
	PSMSingleColumn PageSegMode = 4
	// PSMSingleBlock assumes a single uniform block of text.
	PSMSingleBlock PageSegMode = 6
)

// Config selects a recognition strategy for a single engine invocation.
type Config struct {
	// Mode is the page-segmentation mode. Cloud backends segment on the
	// server side and ignore it.
	Mode PageSegMode

	// Language is the recognition language ("eng" by default).
	Language string
}

// Recognizer is a single text-recognition engine invocation boundary.
type Recognizer interface {
	// Recognize runs one OCR pass over the image and returns the raw text.
	Recognize(ctx context.Context, img image.Image, cfg Config) (string, error)

	// Close releases engine resources.
	Close() error
}

// NewRecognizer builds the recognizer selected by backend name.
func NewRecognizer(ctx context.Context, backend, language string) (Recognizer, error) {
	switch backend {
	case "tesseract", "":
		return NewTesseractRecognizer(language)
	case "vision":
		return NewVisionRecognizer(ctx)
	case "documentai":
		return NewDocumentAIRecognizer(ctx)
	default:
		return nil, WrapRecognitionError("NewRecognizer", ErrUnknownBackend, fmt.Sprintf("backend: %q", backend))
	}
}
