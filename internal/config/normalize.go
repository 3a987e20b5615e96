package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizeCapture()
	c.normalizeNotify()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	formats := make([]string, 0, len(c.Export.Formats))
	seen := make(map[string]struct{}, len(c.Export.Formats))
	for _, format := range c.Export.Formats {
		normalized := strings.ToLower(strings.TrimSpace(format))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		formats = append(formats, normalized)
	}
	if len(formats) == 0 {
		formats = defaultFormats()
	}
	c.Export.Formats = formats

	c.Export.DefaultFormat = strings.ToLower(strings.TrimSpace(c.Export.DefaultFormat))
	if c.Export.DefaultFormat == "" {
		c.Export.DefaultFormat = c.Export.Formats[0]
	}

	c.Export.FilenamePattern = strings.TrimSpace(c.Export.FilenamePattern)
	if c.Export.FilenamePattern == "" {
		c.Export.FilenamePattern = defaultFilenamePattern
	}
}

func (c *Config) normalizeCapture() {
	if c.Capture.MaxSessions <= 0 {
		c.Capture.MaxSessions = defaultMaxSessions
	}
	if c.Capture.MaxScreenshotsPerMeeting <= 0 {
		c.Capture.MaxScreenshotsPerMeeting = defaultMaxScreenshots
	}
	if c.Capture.TranscriptChunkSize <= 0 {
		c.Capture.TranscriptChunkSize = defaultTranscriptChunkSize
	}
}

func (c *Config) normalizeNotify() {
	c.Notify.Topic = strings.TrimSpace(c.Notify.Topic)
	if c.Notify.RequestTimeout <= 0 {
		c.Notify.RequestTimeout = defaultNotifyTimeout
	}
	if c.Notify.DedupWindowSeconds <= 0 {
		c.Notify.DedupWindowSeconds = defaultNotifyDedupSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
