// Package daemon owns the process-wide capture state: the session archive,
// the screenshot buffer, the auto-save guard, the alias map, and the
// transcript handed to viewer surfaces. All state lives on one explicitly
// constructed Daemon so dependencies stay visible and testable; there are no
// package-level singletons.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"minutes/internal/alias"
	"minutes/internal/archive"
	"minutes/internal/autosave"
	"minutes/internal/config"
	"minutes/internal/export"
	"minutes/internal/logging"
	"minutes/internal/notify"
	"minutes/internal/screenshots"
	"minutes/internal/session"
)

// Daemon coordinates the archival subsystems and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *archive.Store
	buffer   *screenshots.Buffer
	guard    *autosave.Guard
	exporter *export.Exporter
	notifier notify.Service

	lockPath string
	lock     *flock.Flock
	running  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}

	mu        sync.Mutex
	aliases   alias.Map
	displayed []session.TranscriptEntry
	lastError string
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	DBPath       string
	LockFilePath string
	LastError    string
	Stats        archive.Stats
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *archive.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	notifier := notify.NewService(cfg)
	lockPath := filepath.Join(cfg.Paths.DataDir, "minutesd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		buffer:   screenshots.NewBuffer(store, cfg.Capture.MaxScreenshotsPerMeeting, logger),
		guard:    autosave.NewGuard(),
		notifier: notifier,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		done:     make(chan struct{}),
		aliases:  alias.Map{},
	}
	d.exporter = export.New(cfg, logger, exportNotifier{d})
	return d, nil
}

// Start acquires the daemon lock and reconciles declared default settings
// into the persisted settings store.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another minutes daemon instance is already running")
	}

	config.ReconcileDefaults(ctx, d.store, d.cfg, d.logger)
	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("db_path", d.store.Path()))
	return nil
}

// Stop releases the daemon lock and signals Done.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() {
		if d.running.Load() {
			d.running.Store(false)
			if err := d.lock.Unlock(); err != nil {
				d.logger.Warn("release lock", logging.Error(err))
			}
			d.logger.Info("daemon stopped")
		}
		close(d.done)
	})
}

// Done is closed when Stop has run, letting the host process exit.
func (d *Daemon) Done() <-chan struct{} {
	return d.done
}

// Close stops the daemon and closes the archive store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// Status reports runtime and archive information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		DBPath:       d.store.Path(),
		LockFilePath: d.lockPath,
	}

	d.mu.Lock()
	status.LastError = d.lastError
	d.mu.Unlock()

	stats, err := d.store.ArchiveStats(ctx)
	if err != nil {
		d.logger.Warn("archive stats", logging.Error(err))
	} else {
		status.Stats = stats
	}
	return status
}

// TestNotification sends a test push through the configured notifier. The
// bool reports whether a notifier is actually configured.
func (d *Daemon) TestNotification(ctx context.Context) (bool, error) {
	if !d.cfg.Notify.Enabled || strings.TrimSpace(d.cfg.Notify.Topic) == "" {
		return false, nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// exportNotifier adapts the notify service to the exporter's best-effort
// notification hook.
type exportNotifier struct {
	d *Daemon
}

func (n exportNotifier) ExportCompleted(ctx context.Context, title, path string) {
	if err := n.d.notifier.NotifyExportCompleted(ctx, title, path); err != nil {
		n.d.logger.Debug("export notification failed", logging.Error(err))
	}
}
