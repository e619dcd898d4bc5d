package config

import (
	"fmt"
	"strconv"

	"os"

	"github.com/shopspring/decimal"

	"poscan/internal/extract"
	"poscan/internal/logger"
)

// Config collects everything the pipeline reads from the environment. The
// extraction default constants live here rather than as package-level state
// so that one immutable value flows into the extraction entry point.
type Config struct {
	// OCR Configuration
	OCRBackend    string // tesseract, vision, documentai
	TesseractLang string
	MinImageWidth int    // images narrower than this are upscaled before OCR
	DebugTextPath string // raw consolidated OCR text is persisted here

	// Extraction defaults
	DefaultCurrency string
	DefaultVendor   string
	DefaultTaxRate  string // decimal string, e.g. "0.10"
	SentinelPrice   string // decimal string used when a price cannot be parsed

	// Vendor registry / output
	RegistryPath string // empty means the embedded registry
	OutputDir    string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OCRBackend:      getEnv("OCR_BACKEND", "tesseract"),
		TesseractLang:   getEnv("TESSERACT_LANG", "eng"),
		MinImageWidth:   getEnvInt("OCR_MIN_IMAGE_WIDTH", 1200),
		DebugTextPath:   getEnv("OCR_DEBUG_TEXT_PATH", "output/debug_ocr_text.txt"),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "AUD"),
		DefaultVendor:   getEnv("DEFAULT_VENDOR", "Acme Associates"),
		DefaultTaxRate:  getEnv("DEFAULT_TAX_RATE", "0.10"),
		SentinelPrice:   getEnv("SENTINEL_PRICE", "400.0"),
		RegistryPath:    getEnv("VENDOR_REGISTRY_PATH", ""),
		OutputDir:       getEnv("OUTPUT_DIR", "output"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:       getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.OCRBackend {
	case "tesseract", "vision", "documentai":
	default:
		return fmt.Errorf("OCR_BACKEND must be one of tesseract, vision, documentai (got %q)", c.OCRBackend)
	}
	if _, err := decimal.NewFromString(c.DefaultTaxRate); err != nil {
		return fmt.Errorf("DEFAULT_TAX_RATE is not a decimal: %w", err)
	}
	if _, err := decimal.NewFromString(c.SentinelPrice); err != nil {
		return fmt.Errorf("SENTINEL_PRICE is not a decimal: %w", err)
	}
	if c.MinImageWidth <= 0 {
		return fmt.Errorf("OCR_MIN_IMAGE_WIDTH must be positive")
	}
	return nil
}

// ExtractionDefaults builds the immutable defaults value consumed by the
// extraction pipeline.
func (c *Config) ExtractionDefaults() extract.Defaults {
	taxRate, _ := decimal.NewFromString(c.DefaultTaxRate)
	sentinel, _ := decimal.NewFromString(c.SentinelPrice)
	return extract.Defaults{
		Currency:      c.DefaultCurrency,
		VendorName:    c.DefaultVendor,
		TaxRate:       taxRate,
		SentinelPrice: sentinel,
	}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
