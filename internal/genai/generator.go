package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// CartoonGenerator calls the third-party image-generation HTTP API. A
// circuit breaker opens after five consecutive failures within the
// counting interval and stays open for thirty seconds, so a dead
// upstream fails jobs fast instead of tying up workers.
type CartoonGenerator struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

type generateRequest struct {
	Prompt         string `json:"prompt"`
	SourceImageURL string `json:"source_image_url"`
}

type generateResponse struct {
	ImageURL string `json:"image_url"`
}

// NewCartoonGenerator creates a generator for the given endpoint.
func NewCartoonGenerator(endpoint, apiKey string, logger *slog.Logger) *CartoonGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &CartoonGenerator{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "cartoon-generation",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("generation circuit state changed", "from", from.String(), "to", to.String())
		},
	})
	return g
}

// Generate submits the prompt and returns the generated image URL.
func (g *CartoonGenerator) Generate(ctx context.Context, prompt, sourceImageURL string) (string, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.call(ctx, prompt, sourceImageURL)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (g *CartoonGenerator) call(ctx context.Context, prompt, sourceImageURL string) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt, SourceImageURL: sourceImageURL})
	if err != nil {
		return "", fmt.Errorf("encoding generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling generation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generation API returned %d: %s", resp.StatusCode, snippet)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding generation response: %w", err)
	}
	if out.ImageURL == "" {
		return "", fmt.Errorf("generation response missing image_url")
	}
	return out.ImageURL, nil
}
