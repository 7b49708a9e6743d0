package source

import (
	"context"
	"strings"
	"time"
)

// AutoSource dispatches on the target's scheme: http and https go to HTTP,
// everything else to File.
type AutoSource struct {
	File Source
	HTTP Source
}

// NewAutoSource returns an AutoSource with a FileSource and an HTTPSource
// using the given request timeout.
func NewAutoSource(timeout time.Duration) *AutoSource {
	return &AutoSource{
		File: FileSource{},
		HTTP: &HTTPSource{Timeout: timeout},
	}
}

// Acquire forwards target to the matching source.
func (s *AutoSource) Acquire(ctx context.Context, target string) (*Decoded, error) {
	if IsRemote(target) {
		return s.HTTP.Acquire(ctx, target)
	}
	return s.File.Acquire(ctx, target)
}

// IsRemote reports whether target is an http or https URL.
func IsRemote(target string) bool {
	t := strings.ToLower(target)
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://")
}
