package ingest

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// maxFetchBytes caps how much of a remote document is read.
const maxFetchBytes = 10 << 20

// FetchResult is the proxy response for a remote document. PDF bytes are
// passed through base64-encoded for client-side extraction; everything else
// is reduced to plain text.
type FetchResult struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"`
}

// Fetcher retrieves remote documents on behalf of the analyzer UI.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger.With(slog.String("component", "fetcher")),
	}
}

// Fetch downloads url and classifies the payload as PDF or text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: upstream status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	f.logger.DebugContext(ctx, "fetched document",
		slog.String("url", url),
		slog.String("content_type", contentType),
		slog.Int("bytes", len(body)),
	)

	if isPDF(contentType, url) {
		return &FetchResult{
			Type: "pdf",
			Data: base64.StdEncoding.EncodeToString(body),
		}, nil
	}

	text, err := HTMLText(strings.NewReader(string(body)))
	if err != nil {
		// Not parseable as HTML; hand back the raw bytes as text.
		text = string(body)
	}
	return &FetchResult{Type: "text", Text: text}, nil
}

func isPDF(contentType, url string) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.HasSuffix(strings.ToLower(trimmed), ".pdf")
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// HTMLText strips markup, scripts and styles from an HTML document and
// returns its visible text with whitespace collapsed.
func HTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	text := doc.Text()
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " ")), nil
}
