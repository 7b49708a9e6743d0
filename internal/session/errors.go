package session

import (
	"errors"
	"fmt"

	"github.com/ironsheep/photo-redact/internal/export"
)

// ErrClosed is returned by operations that need pixels after the session has
// been torn down.
var ErrClosed = errors.New("session closed")

// LoadError reports that the source image could not be acquired or decoded.
// No session exists when Open returns it.
type LoadError struct {
	Target string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load image %q: %v", e.Target, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ExportError reports that encoding or saving an export failed. The session
// is unaffected.
type ExportError struct {
	Format export.Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
