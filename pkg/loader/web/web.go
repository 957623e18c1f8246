package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/OFFIS-RIT/kgraph/pkg/loader"

	"codeberg.org/readeck/go-readability/v2"
)

const maxBodySize = 20 << 20

// WebGraphLoader loads content from web URLs and extracts readable text.
// For HTML pages, it uses readability to extract the main content.
type WebGraphLoader struct {
	client *http.Client
	cache  *loader.Cache
}

// NewWebGraphLoader creates a web loader using http.DefaultClient.
func NewWebGraphLoader() *WebGraphLoader {
	return NewWebGraphLoaderWithClient(http.DefaultClient)
}

// NewWebGraphLoaderWithClient creates a web loader with a custom HTTP client.
func NewWebGraphLoaderWithClient(client *http.Client) *WebGraphLoader {
	return &WebGraphLoader{
		client: client,
		cache:  loader.NewCache(),
	}
}

// GetFileText fetches a URL and extracts readable text content.
// For HTML pages, it uses readability to extract the main article content;
// other content types are returned as fetched.
func (l *WebGraphLoader) GetFileText(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		return l.fetch(ctx, file.FilePath)
	})
}

func (l *WebGraphLoader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch url: status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodySize)

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		article, err := readability.FromReader(body, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse html: %w", err)
		}
		var builder strings.Builder
		if err := article.RenderText(&builder); err != nil {
			return nil, fmt.Errorf("failed to render article text: %w", err)
		}
		return []byte(builder.String()), nil
	}

	return io.ReadAll(body)
}
