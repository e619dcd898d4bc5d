package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"poscan/internal/extract"
	"poscan/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract [image-file]",
	Short: "Extract structured purchase order data from a screenshot",
	Long: `Run OCR over a purchase order screenshot and print the extracted data
as a JSON payload.

Recognition runs several page segmentation passes over both the raw image
and a preprocessed variant, and the consolidated text is parsed with
heuristics tuned to the ERP screen layout. When the document number or
posting date cannot be read from the full page, the upper right header
region is retried on its own.

Extraction never fails on unreadable content: missing fields fall back to
configured defaults and a placeholder line item is synthesized when the
table cannot be read, so the payload is always complete.`,
	Example: `  # Extract to stdout
  poscan extract po_screenshot.png

  # Save the payload for later invoice generation
  poscan extract po_screenshot.png -o payload.json

  # Force a specific OCR backend
  poscan extract po_screenshot.png --backend vision`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().String("backend", "", "OCR backend override (tesseract, vision, documentai)")
	extractCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract-cmd")

	outputPath, _ := cmd.Flags().GetString("output")
	backend, _ := cmd.Flags().GetString("backend")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Str("output", outputPath).
		Str("backend", backend).
		Msg("Starting extraction")

	if err := validateImageFile(imagePath, log); err != nil {
		return err
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	adapter, err := newOCRAdapter(ctx, cfg, backend, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := adapter.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR adapter")
		}
	}()

	img, err := adapter.LoadImage(imagePath)
	if err != nil {
		log.Error().Err(err).Str("file", imagePath).Msg("Failed to load image")
		return fmt.Errorf("failed to load image: %w", err)
	}

	svc := extract.NewService(adapter, cfg.ExtractionDefaults())
	payload, err := svc.ExtractImage(ctx, img)
	if err != nil {
		log.Error().Err(err).Msg("Extraction failed")
		return fmt.Errorf("extraction failed: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write payload")
			return fmt.Errorf("failed to write payload: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(data)).
			Msg("Payload written")
		return nil
	}

	fmt.Println(string(data))
	return nil
}
