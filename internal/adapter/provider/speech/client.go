// Package speech converts recorded audio to text via an external
// speech-to-text HTTP service.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrUnrecognized reports that the service could not make out any words in
// the audio. It is an expected outcome, not a transport failure.
var ErrUnrecognized = errors.New("speech not recognized")

// Client posts audio to a speech-to-text endpoint and returns the transcript.
type Client struct {
	endpoint   string
	apiKey     string
	language   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for the configured endpoint.
func NewClient(endpoint, apiKey, language string, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		language:   language,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("adapter", "speech"),
	}
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
	Recognized bool   `json:"recognized"`
}

// Transcribe sends the audio payload for recognition. Returns ErrUnrecognized
// when the service heard nothing intelligible.
func (c *Client) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("speech: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Language", c.language)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.log.DebugContext(ctx, "speech request", slog.Int("bytes", len(audio)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return "", ErrUnrecognized
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("speech: read body: %w", err)
	}

	var out transcribeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("speech: decode json: %w", err)
	}

	if !out.Recognized || out.Transcript == "" {
		return "", ErrUnrecognized
	}

	return out.Transcript, nil
}
