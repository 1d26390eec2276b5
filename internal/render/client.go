// Package render fetches diagram markup from the playground render endpoint
// and classifies the ways the fetch can fail.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNetworkUnavailable means no response was received at all.
	ErrNetworkUnavailable = errors.New("render service unreachable")
	// ErrService is the endpoint reporting an internal fault (HTTP 500).
	ErrService = errors.New("render service error")
	// ErrRateLimited is the endpoint refusing the request (HTTP 403).
	ErrRateLimited = errors.New("render rate limited")
)

// UnexpectedStatusError covers any other non-success HTTP status.
type UnexpectedStatusError struct {
	Status int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("render endpoint returned unexpected status %d", e.Status)
}

// DefaultTimeout bounds a single render request.
const DefaultTimeout = 30 * time.Second

// Client issues render requests. One request per user action; failures are
// never retried, the UI gate prevents overlap instead.
type Client struct {
	base   string
	client *http.Client
	keys   map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey registers the key sent for a keyed layout engine. The key is
// attached as the "x-<layout>-key" header only when that layout is requested.
func WithAPIKey(layout, key string) Option {
	return func(c *Client) { c.keys[layout] = key }
}

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: DefaultTimeout},
		keys:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render fetches SVG markup for an already-encoded script. Outcomes are
// classified in priority order: transport failure, 500, 403, any other
// non-2xx status, then success.
func (c *Client) Render(ctx context.Context, encodedScript, layout string, themeID int) (string, error) {
	q := url.Values{}
	q.Set("script", encodedScript)
	q.Set("layout", layout)
	q.Set("theme", strconv.Itoa(themeID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/render/svg?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build render request: %w", err)
	}
	if key := c.keys[layout]; key != "" {
		req.Header.Set("x-"+layout+"-key", key)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusInternalServerError:
		return "", ErrService
	case resp.StatusCode == http.StatusForbidden:
		return "", ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &UnexpectedStatusError{Status: resp.StatusCode}
	}

	markup, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNetworkUnavailable, err)
	}
	return string(markup), nil
}
