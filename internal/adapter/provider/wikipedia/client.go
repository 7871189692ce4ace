// Package wikipedia resolves lookup terms against the Wikipedia REST API
// (page-summary endpoint). It backs the assistant's reference lookups.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vozlab/asistente-backend/internal/assistant"
)

const defaultBaseURL = "https://es.wikipedia.org/api/rest_v1"

const defaultTimeout = 10 * time.Second

const disambiguationType = "disambiguation"

// Client fetches page summaries from the Wikipedia REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for the given base URL. An empty baseURL selects
// Spanish Wikipedia; a non-positive timeout falls back to the default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "wikipedia"),
	}
}

// Summarize resolves a term to one of: a capped two-sentence summary, a list
// of candidate titles (disambiguation), or not-found. Transport failures and
// unexpected statuses return an error.
func (c *Client) Summarize(ctx context.Context, term string) (assistant.LookupResult, error) {
	reqURL := c.baseURL + "/page/summary/" + url.PathEscape(term)

	c.log.DebugContext(ctx, "wikipedia request", slog.String("term", term))

	body, status, err := c.get(ctx, reqURL, term)
	if err != nil {
		return assistant.LookupResult{}, fmt.Errorf("wikipedia: request failed: %w", err)
	}

	if status == http.StatusNotFound {
		return assistant.LookupResult{NotFound: true}, nil
	}
	if status != http.StatusOK {
		return assistant.LookupResult{}, fmt.Errorf("wikipedia: unexpected status %d", status)
	}

	var summary pageSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return assistant.LookupResult{}, fmt.Errorf("wikipedia: decode json: %w", err)
	}

	if summary.Type == disambiguationType {
		return assistant.LookupResult{Candidates: c.candidates(ctx, summary.Title, term)}, nil
	}

	return assistant.LookupResult{Extract: capSentences(summary.Extract, 2)}, nil
}

// candidates fetches related page titles for a disambiguation hit. When the
// related lookup fails the disambiguation title itself is the only candidate;
// ambiguity is still reported rather than masked as an error.
func (c *Client) candidates(ctx context.Context, title, term string) []string {
	reqURL := c.baseURL + "/page/related/" + url.PathEscape(title)

	body, status, err := c.get(ctx, reqURL, term)
	if err != nil || status != http.StatusOK {
		c.log.WarnContext(ctx, "wikipedia related lookup failed",
			slog.String("term", term), slog.Int("status", status))
		return []string{title}
	}

	var related relatedPages
	if err := json.Unmarshal(body, &related); err != nil || len(related.Pages) == 0 {
		return []string{title}
	}

	titles := make([]string, 0, len(related.Pages))
	for _, p := range related.Pages {
		titles = append(titles, p.Title)
	}
	return titles
}

// get executes a GET with a single retry on 5xx or network errors and
// returns the body and status.
func (c *Client) get(ctx context.Context, reqURL, term string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, req, term)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return body, resp.StatusCode, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, term string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "wikipedia retry", slog.String("term", term), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	return c.httpClient.Do(req)
}

// capSentences truncates text after n sentence terminators.
func capSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		switch r {
		case '.', '!', '?':
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return strings.TrimSpace(text)
}
