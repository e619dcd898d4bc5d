package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// DocumentAIConfig holds configuration for the Document AI OCR backend.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu"). Should match
	// where the processor is created.
	Location string

	// ProcessorID is the Document AI OCR processor ID.
	ProcessorID string
}

// DocumentAIRecognizer implements Recognizer using a Google Document AI OCR
// processor. Only the raw document text is consumed; the heuristic extraction
// pipeline does its own field parsing. Document AI segments the page
// server-side, so the requested page-segmentation mode is ignored.
type DocumentAIRecognizer struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
}

// NewDocumentAIRecognizer creates a recognizer with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
// Requires: GOOGLE_PROJECT_ID, GOOGLE_PROCESSOR_ID
// Optional: GOOGLE_LOCATION (defaults to "us")
func NewDocumentAIRecognizer(ctx context.Context) (*DocumentAIRecognizer, error) {
	const op = "NewDocumentAIRecognizer"

	config := DocumentAIConfig{
		ProjectID:   getEnvVar("GOOGLE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
		Location:    getEnvVar("GOOGLE_LOCATION", "GOOGLE_CLOUD_LOCATION"),
		ProcessorID: getEnvVar("GOOGLE_PROCESSOR_ID", "DOCUMENT_AI_PROCESSOR_ID"),
	}

	if config.ProjectID == "" {
		return nil, WrapRecognitionError(op, ErrMissingCredentials, "GOOGLE_PROJECT_ID or GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapRecognitionError(op, ErrMissingCredentials, "GOOGLE_PROCESSOR_ID or DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	var clientOptions []option.ClientOption

	// Document AI uses regional endpoints outside "us".
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		return nil, WrapRecognitionError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIRecognizer{
		client: client,
		config: config,
	}, nil
}

// NewDocumentAIRecognizerWithConfig creates a recognizer with explicit config
// and client (for testing).
func NewDocumentAIRecognizerWithConfig(config DocumentAIConfig, client *documentai.DocumentProcessorClient) *DocumentAIRecognizer {
	return &DocumentAIRecognizer{
		client: client,
		config: config,
	}
}

// Recognize runs one Document AI OCR pass over the image.
func (d *DocumentAIRecognizer) Recognize(ctx context.Context, img image.Image, _ Config) (string, error) {
	const op = "Recognize"

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", WrapRecognitionError(op, ErrInvalidImage, err.Error())
	}

	req := &documentaipb.ProcessRequest{
		Name: d.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  buf.Bytes(),
				MimeType: "image/png",
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return "", WrapRecognitionError(op, ErrRecognitionFailed, fmt.Sprintf("Document AI call failed: %v", err))
	}
	if resp.GetDocument() == nil {
		return "", WrapRecognitionError(op, ErrRecognitionFailed, "no document in Document AI response")
	}

	return resp.GetDocument().GetText(), nil
}

func (d *DocumentAIRecognizer) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		d.config.ProjectID, d.config.Location, d.config.ProcessorID)
}

// Close closes the underlying Document AI client.
func (d *DocumentAIRecognizer) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

// getEnvVar returns the first non-empty value among the named variables.
func getEnvVar(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
