package shortlink

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client shortens quiz share links. TinyURL first, then is.gd and v.gd;
// the providers are interchangeable GET APIs that answer with the short
// URL as plain text.
type Client struct {
	providers []provider
	http      *http.Client
}

type provider struct {
	name     string
	endpoint func(target string) string
}

func NewClient() *Client {
	return &Client{
		providers: []provider{
			{"tinyurl", func(t string) string {
				return "https://tinyurl.com/api-create.php?url=" + url.QueryEscape(t)
			}},
			{"is.gd", func(t string) string {
				return "https://is.gd/create.php?format=simple&url=" + url.QueryEscape(t)
			}},
			{"v.gd", func(t string) string {
				return "https://v.gd/create.php?format=simple&url=" + url.QueryEscape(t)
			}},
		},
		http: &http.Client{Timeout: 8 * time.Second},
	}
}

// Shorten tries each provider in order and returns the first short URL.
// When every provider fails the original URL comes back with the error,
// so callers can still hand out a working (long) link.
func (c *Client) Shorten(ctx context.Context, target string) (string, error) {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return target, fmt.Errorf("refusing to shorten non-http URL")
	}

	var lastErr error
	for _, p := range c.providers {
		short, err := c.tryProvider(ctx, p, target)
		if err != nil {
			log.Printf("⚠️ shortlink: %s failed: %v", p.name, err)
			lastErr = err
			continue
		}
		return short, nil
	}

	return target, fmt.Errorf("all shortlink providers failed: %w", lastErr)
}

func (c *Client) tryProvider(ctx context.Context, p provider, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.endpoint(target), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil {
		return "", err
	}

	short := strings.TrimSpace(string(body))
	if !strings.HasPrefix(short, "http") {
		return "", fmt.Errorf("unexpected response: %q", short)
	}

	return short, nil
}
