package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sink persists exported bytes.
type Sink interface {
	Save(data []byte, filename, mimeType string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(data []byte, filename, mimeType string) error

// Save calls f.
func (f SinkFunc) Save(data []byte, filename, mimeType string) error {
	return f(data, filename, mimeType)
}

// maxUniqueTries bounds the "name (n).ext" search.
const maxUniqueTries = 10000

// DirSink writes downloads into a directory. An existing file is never
// overwritten: the name gets a " (1)", " (2)", ... suffix before the
// extension instead.
type DirSink struct {
	Dir string

	// lastPath records where the most recent Save wrote.
	lastPath string
}

// NewDirSink returns a sink writing into dir. The directory is created on the
// first Save if missing.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

// Save writes data to a unique file in the sink directory.
func (s *DirSink) Save(data []byte, filename, mimeType string) error {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return fmt.Errorf("invalid download filename: %q", filename)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < maxUniqueTries; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		p := filepath.Join(s.Dir, candidate)

		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create download: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(p)
			return fmt.Errorf("failed to write download: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write download: %w", err)
		}
		s.lastPath = p
		return nil
	}
	return fmt.Errorf("no free filename for %q in %s", name, s.Dir)
}

// LastPath returns the path written by the most recent successful Save.
func (s *DirSink) LastPath() string {
	return s.lastPath
}
