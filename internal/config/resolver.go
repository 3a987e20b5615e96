package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// SettingsStore is the persisted settings surface the resolver reconciles
// declared defaults into. Implemented by the archive store.
type SettingsStore interface {
	Setting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Resolver loads configuration once per process and memoizes the result.
type Resolver struct {
	path string

	once sync.Once
	cfg  *Config
	err  error
}

// NewResolver creates a resolver for the given config path. An empty path
// uses the default lookup locations.
func NewResolver(path string) *Resolver {
	return &Resolver{path: path}
}

// Config returns the memoized configuration, loading it on first use.
// Subsequent calls return the cached value without re-reading the file.
func (r *Resolver) Config() (*Config, error) {
	r.once.Do(func() {
		r.cfg, _, _, r.err = Load(r.path)
	})
	return r.cfg, r.err
}

// ResolveFormat returns a member of the allowed-format set. A requested
// format outside the set falls back to the configured default if allowed,
// else the first allowed format.
func (c *Config) ResolveFormat(requested string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	for _, format := range c.Export.Formats {
		if format == requested {
			return requested
		}
	}
	for _, format := range c.Export.Formats {
		if format == c.Export.DefaultFormat {
			return c.Export.DefaultFormat
		}
	}
	return c.Export.Formats[0]
}

// ReconcileDefaults writes declared default settings whose persisted value
// differs from the configured value, skipping unset configured values. A
// persisted default format outside the allowed set is corrected to the first
// allowed format. Failures are logged and never abort startup.
func ReconcileDefaults(ctx context.Context, store SettingsStore, cfg *Config, logger *slog.Logger) {
	if store == nil || cfg == nil {
		return
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for key, value := range cfg.DeclaredDefaults() {
		if strings.TrimSpace(value) == "" {
			continue
		}
		persisted, ok, err := store.Setting(ctx, key)
		if err != nil {
			logger.Warn("read persisted setting", "key", key, "error", err)
			continue
		}
		if ok && persisted == value {
			continue
		}
		if err := store.SetSetting(ctx, key, value); err != nil {
			logger.Warn("reconcile setting", "key", key, "error", err)
		}
	}

	persisted, ok, err := store.Setting(ctx, "default_format")
	if err != nil {
		logger.Warn("read persisted default format", "error", err)
		return
	}
	if !ok {
		return
	}
	if cfg.ResolveFormat(persisted) != persisted {
		corrected := cfg.Export.Formats[0]
		if err := store.SetSetting(ctx, "default_format", corrected); err != nil {
			logger.Warn("correct persisted default format", "error", err)
			return
		}
		logger.Info("corrected persisted default format", "from", persisted, "to", corrected)
	}
}
