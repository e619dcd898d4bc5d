package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"poscan/internal/logger"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr [image-file]",
	Short: "Print the raw consolidated OCR text for a screenshot",
	Long: `Run the multi-pass OCR stage on its own and print the consolidated text.

This is the same text the extract command parses: several page segmentation
modes over both the raw image and a contrast-enhanced variant, joined
together. Useful for debugging why a field was not extracted.

The tesseract backend runs locally. The vision and documentai backends call
Google Cloud and need credentials:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Dump consolidated text to stdout
  poscan ocr po_screenshot.png

  # Only the header region of the page
  poscan ocr po_screenshot.png --header-region

  # Save to file using the Google Cloud Vision backend
  poscan ocr po_screenshot.png --backend vision -o text.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runOCRText,
}

func init() {
	rootCmd.AddCommand(ocrCmd)

	ocrCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	ocrCmd.Flags().Bool("header-region", false, "Recognize only the upper right header region")
	ocrCmd.Flags().String("backend", "", "OCR backend override (tesseract, vision, documentai)")
	ocrCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runOCRText(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr-cmd")

	outputPath, _ := cmd.Flags().GetString("output")
	headerOnly, _ := cmd.Flags().GetBool("header-region")
	backend, _ := cmd.Flags().GetString("backend")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Bool("header_region", headerOnly).
		Str("backend", backend).
		Msg("Starting OCR")

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

	var text string
	if headerOnly {
		text, err = adapter.HeaderRegionText(ctx, img)
	} else {
		text, err = adapter.ConsolidatedText(ctx, img)
	}
	if err != nil {
		log.Error().Err(err).Msg("OCR failed")
		return fmt.Errorf("OCR failed: %w", err)
	}

	log.Info().
		Int("text_length", len(text)).
		Msg("OCR completed")

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Msg("OCR text written to file")
		return nil
	}

	fmt.Println(text)
	return nil
}
