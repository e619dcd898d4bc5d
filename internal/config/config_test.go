package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tesseract", cfg.OCRBackend)
	assert.Equal(t, "eng", cfg.TesseractLang)
	assert.Equal(t, 1200, cfg.MinImageWidth)
	assert.Equal(t, "AUD", cfg.DefaultCurrency)
	assert.Equal(t, "Acme Associates", cfg.DefaultVendor)
	assert.Equal(t, "output", cfg.OutputDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OCR_BACKEND", "vision")
	t.Setenv("DEFAULT_CURRENCY", "USD")
	t.Setenv("OCR_MIN_IMAGE_WIDTH", "900")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "vision", cfg.OCRBackend)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, 900, cfg.MinImageWidth)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("OCR_BACKEND", "abbyy")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDecimals(t *testing.T) {
	t.Setenv("DEFAULT_TAX_RATE", "ten percent")

	_, err := Load()
	assert.Error(t, err)
}

func TestExtractionDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	d := cfg.ExtractionDefaults()
	assert.Equal(t, "AUD", d.Currency)
	assert.Equal(t, "Acme Associates", d.VendorName)
	assert.Equal(t, "0.10", d.TaxRate.StringFixed(2))
	assert.Equal(t, "400.00", d.SentinelPrice.StringFixed(2))
}
