package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single compile request. A hung request must not
// leave the UI locked forever.
const DefaultTimeout = 30 * time.Second

// HTTPService is the Service implementation backed by the playground API:
// POST <base>/compile with a JSON body {"script": ...}, response body is a
// Result.
type HTTPService struct {
	base   string
	client *http.Client
}

var _ Service = (*HTTPService)(nil)

// HTTPOption configures an HTTPService.
type HTTPOption func(*HTTPService)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPService) { s.client = c }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPService) { s.client.Timeout = d }
}

func NewHTTPService(base string, opts ...HTTPOption) *HTTPService {
	s := &HTTPService{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPService) Compile(ctx context.Context, script string) (Result, error) {
	body, err := json.Marshal(struct {
		Script string `json:"script"`
	}{Script: script})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal compile request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/compile", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build compile request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("compile endpoint returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read compile response: %w", err)
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("failed to decode compile response: %w", err)
	}
	return res, nil
}
