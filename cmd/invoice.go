package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"poscan/internal/config"
	"poscan/internal/extract"
	"poscan/internal/logger"
	"poscan/internal/registry"
	"poscan/internal/render"
	"poscan/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice [image-file]",
	Short: "Generate a PDF invoice from a purchase order screenshot",
	Long: `Run the full pipeline: OCR the screenshot, extract the purchase order
data, resolve the vendor's rendering profile, and stamp the data onto the
vendor's blank invoice template.

The vendor profile decides which PDF template is used and where each value
lands on the page. The extracted vendor name is matched against the
registry with OCR-tolerant fuzzy matching; use --vendor to pin a profile
explicitly. A previously extracted payload can be rendered without
re-running OCR via --payload.`,
	Example: `  # Full pipeline from screenshot to PDF
  poscan invoice po_screenshot.png

  # Render a previously extracted payload
  poscan invoice --payload payload.json

  # Pin the vendor profile and override the document number
  poscan invoice po_screenshot.png --vendor acme_associates --po-number 803

  # Keep the intermediate payload next to the PDF
  poscan invoice po_screenshot.png --save-payload`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInvoice,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)

	invoiceCmd.Flags().String("payload", "", "Render from a saved payload JSON instead of an image")
	invoiceCmd.Flags().String("vendor", "", "Vendor registry key (default: resolved from extracted name)")
	invoiceCmd.Flags().String("po-number", "", "Override the extracted document number")
	invoiceCmd.Flags().String("template", "", "Template PDF path override")
	invoiceCmd.Flags().StringP("output", "o", "", "Output PDF path (default: <output-dir>/invoice_<po>.pdf)")
	invoiceCmd.Flags().Bool("save-payload", false, "Write the extracted payload JSON next to the PDF")
	invoiceCmd.Flags().String("backend", "", "OCR backend override (tesseract, vision, documentai)")
	invoiceCmd.Flags().Int("timeout", 180, "Processing timeout in seconds")
}

func runInvoice(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice-cmd")

	payloadPath, _ := cmd.Flags().GetString("payload")
	vendorKey, _ := cmd.Flags().GetString("vendor")
	poOverride, _ := cmd.Flags().GetString("po-number")
	templateOverride, _ := cmd.Flags().GetString("template")
	outputPath, _ := cmd.Flags().GetString("output")
	savePayload, _ := cmd.Flags().GetBool("save-payload")
	backend, _ := cmd.Flags().GetString("backend")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if payloadPath == "" && len(args) == 0 {
		return fmt.Errorf("either an image file or --payload is required")
	}
	if payloadPath != "" && len(args) > 0 {
		return fmt.Errorf("--payload and an image file are mutually exclusive")
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	var payload models.Payload
	if payloadPath != "" {
		payload, err = loadPayload(payloadPath, log)
	} else {
		payload, err = extractPayload(args[0], cfg, backend, timeoutSecs, log)
	}
	if err != nil {
		return err
	}

	if poOverride != "" {
		payload.Header.PONumber = poOverride
	}

	reg, err := registry.LoadFile(cfg.RegistryPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load vendor registry")
		return fmt.Errorf("failed to load vendor registry: %w", err)
	}

	vendor, err := resolveVendor(reg, vendorKey, payload.Header.VendorName, cfg.DefaultVendor, log)
	if err != nil {
		return err
	}
	payload.VendorKey = vendor.Key

	template := vendor.Template
	if templateOverride != "" {
		template = templateOverride
	}

	if outputPath == "" {
		name := "invoice.pdf"
		if payload.Header.PONumber != "" {
			name = fmt.Sprintf("invoice_%s.pdf", payload.Header.PONumber)
		}
		outputPath = filepath.Join(cfg.OutputDir, name)
	}

	invoiceNo, err := render.NewRenderer().FillInvoice(payload, template, vendor.Layout, outputPath)
	if err != nil {
		log.Error().Err(err).Msg("Invoice rendering failed")
		return fmt.Errorf("invoice rendering failed: %w", err)
	}

	if savePayload {
		jsonPath := outputPath[:len(outputPath)-len(filepath.Ext(outputPath))] + ".json"
		if err := writePayload(payload, jsonPath, log); err != nil {
			return err
		}
	}

	log.Info().
		Str("invoice_number", invoiceNo).
		Str("output", outputPath).
		Str("vendor", vendor.Key).
		Msg("Invoice generated")

	fmt.Printf("Invoice %s written to %s\n", invoiceNo, outputPath)
	return nil
}

// extractPayload runs the OCR and extraction stages of the pipeline.
func extractPayload(imagePath string, cfg *config.Config, backend string, timeoutSecs int, log zerolog.Logger) (models.Payload, error) {
	if err := validateImageFile(imagePath, log); err != nil {
		return models.Payload{}, err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	adapter, err := newOCRAdapter(ctx, cfg, backend, log)
	if err != nil {
		return models.Payload{}, err
	}
	defer func() {
		if closeErr := adapter.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR adapter")
		}
	}()

	img, err := adapter.LoadImage(imagePath)
	if err != nil {
		log.Error().Err(err).Str("file", imagePath).Msg("Failed to load image")
		return models.Payload{}, fmt.Errorf("failed to load image: %w", err)
	}

	svc := extract.NewService(adapter, cfg.ExtractionDefaults())
	payload, err := svc.ExtractImage(ctx, img)
	if err != nil {
		log.Error().Err(err).Msg("Extraction failed")
		return models.Payload{}, fmt.Errorf("extraction failed: %w", err)
	}
	return payload, nil
}

// resolveVendor picks the rendering profile: an explicit key is
// authoritative and unknown keys are fatal, otherwise the extracted name is
// fuzzy-matched with the configured default as the last resort.
func resolveVendor(reg *registry.Registry, explicitKey, extractedName, defaultVendor string, log zerolog.Logger) (registry.Vendor, error) {
	if explicitKey != "" {
		vendor, err := reg.Lookup(explicitKey)
		if err != nil {
			if errors.Is(err, registry.ErrVendorNotFound) {
				log.Error().
					Str("vendor", explicitKey).
					Strs("known", reg.Keys()).
					Msg("Unknown vendor key")
			}
			return registry.Vendor{}, fmt.Errorf("unknown vendor %q: %w", explicitKey, err)
		}
		return vendor, nil
	}

	if vendor, ok := reg.FindByName(extractedName); ok {
		return vendor, nil
	}

	log.Warn().
		Str("name", extractedName).
		Str("fallback", defaultVendor).
		Msg("Extracted vendor not in registry, using default")

	vendor, err := reg.Lookup(defaultVendor)
	if err != nil {
		return registry.Vendor{}, fmt.Errorf("default vendor %q not in registry: %w", defaultVendor, err)
	}
	return vendor, nil
}

func loadPayload(path string, log zerolog.Logger) (models.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to read payload file")
		return models.Payload{}, fmt.Errorf("failed to read payload file: %w", err)
	}
	var payload models.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to parse payload file")
		return models.Payload{}, fmt.Errorf("failed to parse payload file: %w", err)
	}
	return payload, nil
}

func writePayload(payload models.Payload, path string, log zerolog.Logger) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to write payload")
		return fmt.Errorf("failed to write payload: %w", err)
	}
	log.Info().Str("file", path).Msg("Payload written")
	return nil
}
