// Package ml is the boundary to the inference sidecar: nose detection
// (cropping) and embedding extraction. The models themselves live in a
// separate service; this package only moves bytes.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Detector crops the nose region out of a dog photo.
type Detector interface {
	// DetectNose returns the cropped nose image, or ErrNoNose when the
	// detector finds none.
	DetectNose(ctx context.Context, image []byte) ([]byte, error)
}

// Extractor turns a nose crop into an embedding vector.
type Extractor interface {
	ExtractEmbedding(ctx context.Context, image []byte) ([]float32, error)
}

// Client talks to the inference service over HTTP. It implements both
// Detector and Extractor.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an inference client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// DetectNose posts the image and returns the cropped region.
func (c *Client) DetectNose(ctx context.Context, image []byte) ([]byte, error) {
	resp, err := c.post(ctx, "/v1/detect-nose", image)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		crop, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading detection response: %w", err)
		}
		return crop, nil
	case http.StatusUnprocessableEntity:
		return nil, ErrNoNose
	default:
		return nil, fmt.Errorf("detector returned %d", resp.StatusCode)
	}
}

// ExtractEmbedding posts the crop and returns the embedding.
func (c *Client) ExtractEmbedding(ctx context.Context, image []byte) ([]float32, error) {
	resp, err := c.post(ctx, "/v1/embed", image)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extractor returned %d", resp.StatusCode)
	}

	var out struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("extractor returned empty embedding")
	}
	return out.Embedding, nil
}

func (c *Client) post(ctx context.Context, path string, image []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("building inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling inference service: %w", err)
	}
	return resp, nil
}
