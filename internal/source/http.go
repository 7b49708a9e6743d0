package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxBytes caps the size of a downloaded image.
const DefaultMaxBytes = 64 << 20

// HTTPSource downloads images over HTTP(S).
type HTTPSource struct {
	// Client performs the requests. A nil Client uses a client with Timeout.
	Client *http.Client

	// Timeout bounds each request when Client is nil. Zero means no timeout
	// beyond the caller's context.
	Timeout time.Duration

	// MaxBytes caps the response body. Zero selects DefaultMaxBytes.
	MaxBytes int64
}

// Acquire fetches target with a GET request and decodes the body. Any non-2xx
// status is an error.
func (s *HTTPSource) Acquire(ctx context.Context, target string) (*Decoded, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	req.Header.Set("Accept", "image/png,image/jpeg,image/gif,image/*;q=0.8")

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch image: %s", resp.Status)
	}

	limit := s.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body := io.LimitReader(resp.Body, limit+1)
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image exceeds %d bytes", limit)
	}

	return Decode(bytes.NewReader(data), target)
}

func (s *HTTPSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: s.Timeout}
}
