package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ironsheep/photo-redact/internal/effect"
	"github.com/ironsheep/photo-redact/internal/export"
	"github.com/ironsheep/photo-redact/internal/logging"
	"github.com/ironsheep/photo-redact/internal/overlay"
	"github.com/ironsheep/photo-redact/internal/selection"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "PHOTO_REDACT_LOG_LEVEL"
	EnvExportDir = "PHOTO_REDACT_EXPORT_DIR"
)

// Config holds runtime configuration for the editor and its host bridge.
// Fields may be loaded from a JSON file and overridden by environment
// variables.
type Config struct {
	LogLevel string `json:"log_level"`

	// Initial tool state for new sessions
	BrushSize int    `json:"brush_size"`
	Mode      string `json:"mode"`

	// Downloads
	ExportDir    string `json:"export_dir"`
	ExportFormat string `json:"export_format"`

	// Image acquisition
	HTTPTimeoutSeconds int `json:"http_timeout_seconds"`

	// Preview chrome
	OverlayColor string  `json:"overlay_color"`
	OverlayAlpha float64 `json:"overlay_alpha"`

	// Text redaction
	OCRLanguage      string  `json:"ocr_language"`
	OCRMinConfidence float64 `json:"ocr_min_confidence"`
	TextPadding      int     `json:"text_padding"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		BrushSize:          effect.DefaultBrushSize,
		Mode:               selection.BrushMosaic.String(),
		ExportDir:          ".",
		ExportFormat:       export.PNG.String(),
		HTTPTimeoutSeconds: 30,
		OverlayColor:       overlay.DefaultColor,
		OverlayAlpha:       overlay.DefaultAlpha,
		OCRLanguage:        "eng",
		OCRMinConfidence:   0.6,
		TextPadding:        4,
	}
}

// Validate clamps/normalizes values to safe ranges. Unknown names are reset
// to their defaults and reported in the returned error.
func (c *Config) Validate() error {
	def := DefaultConfig()
	var errs []error

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		c.LogLevel = def.LogLevel
		errs = append(errs, err)
	}
	c.BrushSize = effect.ClampBrushSize(c.BrushSize)
	if m, err := selection.ParseMode(c.Mode); err != nil {
		c.Mode = def.Mode
		errs = append(errs, err)
	} else {
		c.Mode = m.String()
	}
	if c.ExportDir == "" {
		c.ExportDir = def.ExportDir
	}
	if f, err := export.ParseFormat(c.ExportFormat); err != nil {
		c.ExportFormat = def.ExportFormat
		errs = append(errs, err)
	} else {
		c.ExportFormat = f.String()
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = def.HTTPTimeoutSeconds
	}
	if _, err := overlay.ParseColor(c.OverlayColor, c.OverlayAlpha); err != nil {
		c.OverlayColor = def.OverlayColor
		errs = append(errs, err)
	}
	if c.OverlayAlpha <= 0 || c.OverlayAlpha > 1 {
		c.OverlayAlpha = def.OverlayAlpha
	}
	if c.OCRLanguage == "" {
		c.OCRLanguage = def.OCRLanguage
	}
	if c.OCRMinConfidence < 0 || c.OCRMinConfidence > 1 {
		c.OCRMinConfidence = def.OCRMinConfidence
	}
	if c.TextPadding < 0 {
		c.TextPadding = 0
	}
	return errors.Join(errs...)
}

// ApplyEnv overrides settings from environment variables read through
// getenv. Empty values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvExportDir); v != "" {
		c.ExportDir = v
	}
}

// HTTPTimeout returns the image download timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// InitialMode returns the parsed start-up mode.
func (c *Config) InitialMode() selection.Mode {
	m, err := selection.ParseMode(c.Mode)
	if err != nil {
		return selection.BrushMosaic
	}
	return m
}

// Format returns the parsed default export format.
func (c *Config) Format() export.Format {
	f, err := export.ParseFormat(c.ExportFormat)
	if err != nil {
		return export.PNG
	}
	return f
}

// Overlay returns the preview style configured for new previews.
func (c *Config) Overlay() overlay.Style {
	return overlay.Style{Color: c.OverlayColor, Alpha: c.OverlayAlpha, Labels: true}
}

// Load attempts to read configuration from the given JSON file path. If the
// file does not exist it returns DefaultConfig(). On JSON error it returns
// defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
