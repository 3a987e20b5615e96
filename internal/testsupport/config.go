package testsupport

import (
	"path/filepath"
	"testing"

	"minutes/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithMaxSessions overrides the session index cap on the test config.
func WithMaxSessions(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Capture.MaxSessions = limit
	}
}

// WithChunkSize overrides the transcript chunk size on the test config.
func WithChunkSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Capture.TranscriptChunkSize = size
	}
}

// WithFormats overrides the allowed export formats on the test config.
func WithFormats(formats []string, defaultFormat string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Export.Formats = formats
		cfg.Export.DefaultFormat = defaultFormat
	}
}
