package daemon

import (
	"context"
	"fmt"
	"strconv"

	"minutes/internal/alias"
	"minutes/internal/archive"
	"minutes/internal/autosave"
	"minutes/internal/export"
	"minutes/internal/logging"
	"minutes/internal/session"
)

// SaveSessionHistory archives a completed session and returns its metadata.
func (d *Daemon) SaveSessionHistory(ctx context.Context, title string, transcript []session.TranscriptEntry, report *session.AttendeeReport) (*archive.Metadata, error) {
	if err := session.ValidateTranscript(transcript); err != nil {
		return nil, fmt.Errorf("validate transcript: %w", err)
	}

	meta, err := d.store.SaveSession(ctx, title, transcript, report)
	if err != nil {
		return nil, err
	}

	d.logger.Info("session archived",
		logging.String("session_id", meta.ID),
		logging.String("title", meta.Title),
		logging.Int("caption_count", meta.CaptionCount),
		logging.Int("chunk_count", meta.ChunkCount))

	if err := d.notifier.NotifySessionArchived(ctx, meta.Title, meta.CaptionCount); err != nil {
		d.logger.Debug("archive notification failed", logging.Error(err))
	}
	return meta, nil
}

// DownloadCaptions exports a transcript on explicit user request. The
// destination directory may be overridden per request.
func (d *Daemon) DownloadCaptions(ctx context.Context, title string, transcript []session.TranscriptEntry, format string, report *session.AttendeeReport, dir string) (*export.Result, error) {
	return d.exporter.Export(ctx, export.Request{
		Title:      title,
		Transcript: transcript,
		Report:     report,
		Format:     format,
		Aliases:    d.currentAliases(),
		Dir:        dir,
	})
}

// SaveOnLeave exports a transcript when a capture session ends, gated by the
// auto-save setting and the dedup guard. A skipped save is not an error; the
// returned reason says why nothing was written.
func (d *Daemon) SaveOnLeave(ctx context.Context, title string, transcript []session.TranscriptEntry, recordingStart string, report *session.AttendeeReport) (saved bool, reason string) {
	if !d.autoSaveEnabled(ctx) {
		return false, "auto-save disabled"
	}
	if len(transcript) == 0 {
		return false, "empty transcript"
	}

	key := autosave.Key(title, recordingStart)
	if !d.guard.Begin(key) {
		d.logger.Debug("auto-save skipped", logging.String("meeting_key", key))
		return false, "duplicate save for this meeting occurrence"
	}

	_, err := d.exporter.Export(ctx, export.Request{
		Title:      title,
		Transcript: transcript,
		Report:     report,
		Aliases:    d.currentAliases(),
	})
	d.guard.Finish(key, err)
	if err != nil {
		d.logger.Error("auto-save failed",
			logging.String("meeting_key", key),
			logging.Error(err))
		return false, "export failed"
	}
	return true, ""
}

// DisplayCaptions stores the transcript a viewer surface will read.
func (d *Daemon) DisplayCaptions(transcript []session.TranscriptEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.displayed = transcript
}

// DisplayedCaptions returns the transcript most recently handed to viewers.
func (d *Daemon) DisplayedCaptions() []session.TranscriptEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.displayed
}

// StoreScreenshot appends a frame to the meeting's screenshot buffer and
// returns the retained frame count.
func (d *Daemon) StoreScreenshot(ctx context.Context, meetingID string, frame session.Screenshot) (int, error) {
	return d.buffer.Append(ctx, meetingID, frame)
}

// SetCaptureState handles capture start/stop transitions: starting resets
// the auto-save guard for the new meeting occurrence; stopping clears the
// meeting's screenshot buffer.
func (d *Daemon) SetCaptureState(ctx context.Context, capturing bool, meetingID string) {
	if capturing {
		d.guard.Reset()
		d.logger.Debug("capture started", logging.String("meeting_id", meetingID))
		return
	}
	if meetingID != "" {
		if err := d.buffer.Clear(ctx, meetingID); err != nil {
			d.logger.Warn("clear screenshot buffer",
				logging.String("meeting_id", meetingID),
				logging.Error(err))
		}
	}
	d.logger.Debug("capture stopped", logging.String("meeting_id", meetingID))
}

// SetAliases replaces the speaker alias map for the current capture session.
func (d *Daemon) SetAliases(m alias.Map) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aliases = m
}

// RecordError stores a capture-source error report for diagnostics.
func (d *Daemon) RecordError(message string) {
	d.mu.Lock()
	d.lastError = message
	d.mu.Unlock()
	d.logger.Error("capture source error", logging.String("message", message))
}

// Sessions lists the archived session index, newest first.
func (d *Daemon) Sessions(ctx context.Context) ([]*archive.Metadata, error) {
	return d.store.Sessions(ctx)
}

// Session fetches one archived session's metadata.
func (d *Daemon) Session(ctx context.Context, id string) (*archive.Metadata, error) {
	return d.store.SessionByID(ctx, id)
}

// SessionTranscript reassembles an archived session's transcript.
func (d *Daemon) SessionTranscript(ctx context.Context, id string) ([]session.TranscriptEntry, error) {
	return d.store.SessionTranscript(ctx, id)
}

// SessionAttendees returns an archived session's attendee report, if any.
func (d *Daemon) SessionAttendees(ctx context.Context, id string) (*session.AttendeeReport, error) {
	return d.store.SessionAttendees(ctx, id)
}

// DeleteSession removes an archived session and all of its data.
func (d *Daemon) DeleteSession(ctx context.Context, id string) error {
	return d.store.DeleteSession(ctx, id)
}

// ExportSession renders an archived session to the export directory.
func (d *Daemon) ExportSession(ctx context.Context, id, format, dir string) (*export.Result, error) {
	meta, err := d.store.SessionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	transcript, err := d.store.SessionTranscript(ctx, id)
	if err != nil {
		return nil, err
	}
	report, err := d.store.SessionAttendees(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.exporter.Export(ctx, export.Request{
		Title:      meta.Title,
		Transcript: transcript,
		Report:     report,
		Format:     format,
		Dir:        dir,
	})
}

// Screenshots returns a meeting's buffered frames.
func (d *Daemon) Screenshots(ctx context.Context, meetingID string) ([]session.Screenshot, error) {
	return d.buffer.Frames(ctx, meetingID)
}

func (d *Daemon) currentAliases() alias.Map {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.aliases
}

// autoSaveEnabled prefers the persisted setting over the configured default.
func (d *Daemon) autoSaveEnabled(ctx context.Context) bool {
	value, ok, err := d.store.Setting(ctx, "auto_save")
	if err != nil {
		d.logger.Warn("read auto_save setting", logging.Error(err))
		return d.cfg.Capture.AutoSave
	}
	if !ok {
		return d.cfg.Capture.AutoSave
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return d.cfg.Capture.AutoSave
	}
	return enabled
}
