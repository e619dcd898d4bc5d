package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer implements Recognizer using a local Tesseract engine
// via gosseract. Tesseract must be installed on the system.
type TesseractRecognizer struct {
	client   *gosseract.Client
	language string
}

// NewTesseractRecognizer creates a local Tesseract-backed recognizer.
func NewTesseractRecognizer(language string) (*TesseractRecognizer, error) {
	const op = "NewTesseractRecognizer"

	if language == "" {
		language = "eng"
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		_ = client.Close()
		return nil, WrapRecognitionError(op, err, "failed to set language")
	}

	return &TesseractRecognizer{
		client:   client,
		language: language,
	}, nil
}

// Recognize runs one Tesseract pass with the requested page-segmentation mode.
func (t *TesseractRecognizer) Recognize(ctx context.Context, img image.Image, cfg Config) (string, error) {
	const op = "Recognize"

	if err := ctx.Err(); err != nil {
		return "", WrapRecognitionError(op, err, "context done before recognition")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", WrapRecognitionError(op, ErrInvalidImage, err.Error())
	}

	if cfg.Language != "" && cfg.Language != t.language {
		if err := t.client.SetLanguage(cfg.Language); err != nil {
			return "", WrapRecognitionError(op, err, "failed to set language")
		}
		t.language = cfg.Language
	}
	if err := t.client.SetPageSegMode(gosseract.PageSegMode(cfg.Mode)); err != nil {
		return "", WrapRecognitionError(op, err, "failed to set page segmentation mode")
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", WrapRecognitionError(op, err, "failed to set image")
	}

	text, err := t.client.Text()
	if err != nil {
		return "", WrapRecognitionError(op, ErrRecognitionFailed, err.Error())
	}

	return strings.TrimSpace(text), nil
}

// Close releases the Tesseract client.
func (t *TesseractRecognizer) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
