package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"minutes/internal/alias"
	"minutes/internal/config"
	"minutes/internal/logging"
	"minutes/internal/session"
)

// Notifier is told about completed exports. Notification is best-effort:
// implementations must not block exports and failures are swallowed.
type Notifier interface {
	ExportCompleted(ctx context.Context, title, path string)
}

// Request describes one export operation.
type Request struct {
	Title      string
	Transcript []session.TranscriptEntry
	Report     *session.AttendeeReport
	Format     string
	Aliases    alias.Map
	// Dir overrides the configured export directory when set.
	Dir string
}

// Result reports what an export produced.
type Result struct {
	Path     string
	Format   string
	MIMEType string
}

// Exporter renders transcripts to files in the export directory.
type Exporter struct {
	cfg      *config.Config
	logger   *slog.Logger
	notifier Notifier
}

// New constructs an exporter. The notifier may be nil.
func New(cfg *config.Config, logger *slog.Logger, notifier Notifier) *Exporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exporter{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "export"),
		notifier: notifier,
	}
}

// Export aliases, renders, and writes a transcript using the resolved
// format's extension and MIME type, then notifies any listener that a save
// occurred. Notification failures never surface.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	if err := session.ValidateTranscript(req.Transcript); err != nil {
		return nil, fmt.Errorf("validate transcript: %w", err)
	}

	format := e.cfg.ResolveFormat(req.Format)
	extension, mimeType := formatInfo(format)

	transcript := alias.ApplyToTranscript(req.Transcript, req.Aliases)
	report := alias.ApplyToReport(req.Report, req.Aliases)
	if !e.cfg.Export.AttendeeSummary {
		report = nil
	}

	var content string
	switch format {
	case "txt":
		content = FormatTxt(transcript, report)
	default:
		content = FormatMarkdown(transcript, report)
	}

	dir := req.Dir
	if dir == "" {
		dir = e.cfg.Paths.ExportDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	filename := GenerateFilename(e.filenamePattern(), req.Title, format, req.Report, time.Now())
	path := filepath.Join(dir, filename+extension)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write export file: %w", err)
	}

	e.logger.Info("transcript exported",
		logging.String("path", path),
		logging.String("format", format),
		logging.Int("caption_count", len(transcript)))

	if e.notifier != nil {
		e.notifier.ExportCompleted(ctx, req.Title, path)
	}

	return &Result{Path: path, Format: format, MIMEType: mimeType}, nil
}

func (e *Exporter) filenamePattern() string {
	if e.cfg.Export.FilenamePattern != "" {
		return e.cfg.Export.FilenamePattern
	}
	return "{date}_{title}"
}

func formatInfo(format string) (extension, mimeType string) {
	switch format {
	case "txt":
		return ".txt", "text/plain"
	default:
		return ".md", "text/markdown"
	}
}
