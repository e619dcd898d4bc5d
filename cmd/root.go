package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"poscan/internal/config"
	"poscan/internal/logger"
	"poscan/internal/ocr"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "poscan",
	Short: "poscan - turn purchase order screenshots into invoices",
	Long: `poscan reads screenshots of ERP purchase order screens, recovers the
order data through OCR, and renders finished PDF invoices from vendor
templates.

The pipeline is built to survive low quality screenshots: recognition runs
multiple passes over raw and preprocessed variants of the image, and field
extraction degrades to sensible defaults instead of failing, so a draft
invoice always comes out the other end.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("poscan executed")

		fmt.Println("poscan - purchase order screenshot to invoice pipeline")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// newOCRAdapter wires the configured recognizer backend into the
// preprocessing adapter.
func newOCRAdapter(ctx context.Context, cfg *config.Config, backend string, log zerolog.Logger) (*ocr.Adapter, error) {
	if backend == "" {
		backend = cfg.OCRBackend
	}

	rec, err := ocr.NewRecognizer(ctx, backend, cfg.TesseractLang)
	if err != nil {
		log.Error().
			Err(err).
			Str("backend", backend).
			Msg("Failed to create OCR recognizer")
		return nil, fmt.Errorf("failed to create OCR recognizer: %w", err)
	}

	adapter := ocr.NewAdapter(rec,
		ocr.WithLanguage(cfg.TesseractLang),
		ocr.WithMinWidth(cfg.MinImageWidth),
		ocr.WithDebugTextPath(cfg.DebugTextPath),
	)

	log.Debug().
		Str("backend", backend).
		Msg("OCR adapter created")
	return adapter, nil
}

// loadConfig loads the environment configuration for a command run.
func loadConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// validateImageFile checks that the path points at a readable regular file.
func validateImageFile(path string, log zerolog.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("Image file not found")
			return fmt.Errorf("image file not found: %s", path)
		}
		return fmt.Errorf("error accessing image file: %w", err)
	}
	if !info.Mode().IsRegular() {
		log.Error().Str("file", path).Msg("Path is not a regular file")
		return fmt.Errorf("path is not a regular file: %s", path)
	}
	if info.Size() == 0 {
		log.Error().Str("file", path).Msg("Image file is empty")
		return fmt.Errorf("image file is empty: %s", path)
	}
	return nil
}
