package search

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

	"github.com/nadzzz/hearth/internal/config"
)

// Wikipedia implements Lookup against the Wikipedia REST API
// (/page/summary/{title}).
type Wikipedia struct {
	endpoint string
	client   *http.Client
}

// NewWikipedia creates a Wikipedia lookup from config.
func NewWikipedia(cfg config.SearchConfig) *Wikipedia {
	return &Wikipedia{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup fetches the summary extract for the article best matching the query.
func (w *Wikipedia) Lookup(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrNotFound
	}

	title := strings.ReplaceAll(query, " ", "_")
	reqURL := w.endpoint + "/page/summary/" + url.PathEscape(title) + "?redirect=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating summary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("summary request failed (status %d): %s", resp.StatusCode, body)
	}

	var result struct {
		Type    string `json:"type"`
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding summary: %w", err)
	}

	// Disambiguation pages have no useful extract for speech.
	if result.Type == "disambiguation" || strings.TrimSpace(result.Extract) == "" {
		return "", ErrNotFound
	}

	slog.Debug("wikipedia lookup complete", "query", query, "chars", len(result.Extract))
	return result.Extract, nil
}
