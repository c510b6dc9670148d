// Package scrape fetches dictionary pages over HTTP.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultUserAgent is sent with every request. The dictionary site rejects
	// requests without one.
	DefaultUserAgent = "lernkarten/1.0"
	DefaultTimeout   = 30 * time.Second
)

var (
	// ErrUnreachable wraps transport failures (DNS, refused connections, timeouts).
	ErrUnreachable = errors.New("dictionary unreachable")
	ErrEmptyWord   = errors.New("empty word")
)

// Client fetches raw word pages.
type Client struct {
	http *resty.Client
}

// ClientOptions configures a Client.
type ClientOptions struct {
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a Client. Zero options fall back to the defaults.
func NewClient(opts ClientOptions) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)

	return &Client{http: client}
}

// PageURL returns the lookup URL for word below baseURL.
func PageURL(baseURL, word string) string {
	word = norm.NFC.String(strings.TrimSpace(word))
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(word)
}

// Fetch downloads the page for word. A non-2xx response is logged and returns
// empty content with a nil error; callers treat that as "no translations".
// Transport failures are returned wrapped in ErrUnreachable.
func (c *Client) Fetch(ctx context.Context, baseURL, word string) ([]byte, error) {
	if strings.TrimSpace(word) == "" {
		return nil, ErrEmptyWord
	}

	link := PageURL(baseURL, word)

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", ErrUnreachable, link, err)
	}

	if !res.IsSuccess() {
		slog.WarnContext(ctx, "unable to scrape dictionary page",
			"word", word,
			"url", link,
			"status", res.StatusCode(),
		)
		return nil, nil
	}

	slog.DebugContext(ctx, "fetched dictionary page", "url", link, "bytes", len(res.Body()))
	return res.Body(), nil
}
