package ocr

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"poscan/internal/logger"
)

// passModes are the page-segmentation configurations run over every image,
// in order. Automatic segmentation reads the overall layout best, the
// single-column and uniform-block modes recover table rows the automatic
// mode mangles.
var passModes = []PageSegMode{PSMAuto, PSMSingleColumn, PSMSingleBlock}

// Adapter consolidates multiple recognition passes into one text corpus.
type Adapter struct {
	rec       Recognizer
	language  string
	minWidth  int
	debugPath string
	log       zerolog.Logger
}

// AdapterOption customizes an Adapter.
type AdapterOption func(*Adapter)

// WithLanguage sets the recognition language (default "eng").
func WithLanguage(lang string) AdapterOption {
	return func(a *Adapter) { a.language = lang }
}

// WithMinWidth sets the width below which images are upscaled before the
// preprocessed passes.
func WithMinWidth(w int) AdapterOption {
	return func(a *Adapter) { a.minWidth = w }
}

// WithDebugTextPath sets where the consolidated text is persisted for
// diagnostics. Empty disables persistence.
func WithDebugTextPath(path string) AdapterOption {
	return func(a *Adapter) { a.debugPath = path }
}

// NewAdapter wraps a Recognizer in the multi-pass consolidation logic.
func NewAdapter(rec Recognizer, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		rec:      rec,
		language: "eng",
		minWidth: 1200,
		log:      logger.WithComponent("ocr-adapter"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadImage opens and decodes the screenshot.
func (a *Adapter) LoadImage(path string) (image.Image, error) {
	const op = "LoadImage"

	img, err := imaging.Open(path)
	if err != nil {
		return nil, WrapRecognitionError(op, ErrInvalidImage, err.Error())
	}
	return img, nil
}

// ConsolidatedText runs every page-segmentation mode over the raw image and
// over a preprocessed variant and concatenates all outputs. Individual pass
// failures are tolerated; only all passes failing is an error. The combined
// text is persisted to the debug path as a side effect.
func (a *Adapter) ConsolidatedText(ctx context.Context, img image.Image) (string, error) {
	const op = "ConsolidatedText"

	variants := []struct {
		name string
		img  image.Image
	}{
		{"raw", img},
		{"preprocessed", Preprocess(img, a.minWidth)},
	}

	var parts []string
	var lastErr error
	for _, v := range variants {
		for _, mode := range passModes {
			text, err := a.rec.Recognize(ctx, v.img, Config{Mode: mode, Language: a.language})
			if err != nil {
				lastErr = err
				a.log.Warn().
					Err(err).
					Str("variant", v.name).
					Int("psm", int(mode)).
					Msg("OCR pass failed, continuing with remaining passes")
				continue
			}
			a.log.Debug().
				Str("variant", v.name).
				Int("psm", int(mode)).
				Int("text_length", len(text)).
				Msg("OCR pass completed")
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		if lastErr == nil {
			lastErr = ErrRecognitionFailed
		}
		return "", WrapRecognitionError(op, lastErr, "all OCR passes failed")
	}

	combined := strings.Join(parts, "\n")
	a.persistDebugText(combined)

	return combined, nil
}

// HeaderRegionText reruns OCR over the upper-right quadrant of the image
// with uniform-block segmentation. The extraction pipeline requests this
// when the full-page text did not yield a PO number or posting date.
func (a *Adapter) HeaderRegionText(ctx context.Context, img image.Image) (string, error) {
	const op = "HeaderRegionText"

	crop := HeaderRegion(img)
	text, err := a.rec.Recognize(ctx, crop, Config{Mode: PSMSingleBlock, Language: a.language})
	if err != nil {
		return "", WrapRecognitionError(op, err, "header region pass failed")
	}

	a.log.Debug().
		Int("text_length", len(text)).
		Msg("header region OCR completed")

	return text, nil
}

// Close releases the underlying recognizer.
func (a *Adapter) Close() error {
	return a.rec.Close()
}

func (a *Adapter) persistDebugText(text string) {
	if a.debugPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(a.debugPath), 0755); err != nil {
		a.log.Warn().Err(err).Str("path", a.debugPath).Msg("failed to create debug text directory")
		return
	}
	if err := os.WriteFile(a.debugPath, []byte(text), 0644); err != nil {
		a.log.Warn().Err(err).Str("path", a.debugPath).Msg("failed to persist debug text")
		return
	}
	a.log.Debug().Str("path", a.debugPath).Msg("persisted consolidated OCR text")
}
