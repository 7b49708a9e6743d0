package source

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// FileSource reads images from the local filesystem. Targets may be plain
// paths or file:// URLs.
type FileSource struct{}

// Acquire opens and decodes the file named by target.
func (FileSource) Acquire(ctx context.Context, target string) (*Decoded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := target
	if strings.HasPrefix(target, "file://") {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL: %w", err)
		}
		p = u.Path
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f, p)
}
