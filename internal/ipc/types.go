package ipc

import (
	"minutes/internal/archive"
	"minutes/internal/session"
)

// SessionSummary mirrors archive metadata for IPC callers.
type SessionSummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Timestamp     int64    `json:"timestamp"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	CaptionCount  int      `json:"caption_count"`
	Duration      string   `json:"duration"`
	Speakers      []string `json:"speakers"`
	Attendees     []string `json:"attendees"`
	AttendeeCount int      `json:"attendee_count"`
	Preview       string   `json:"preview"`
	ChunkCount    int      `json:"chunk_count"`
}

func fromMetadata(meta *archive.Metadata) SessionSummary {
	if meta == nil {
		return SessionSummary{}
	}
	return SessionSummary{
		ID:            meta.ID,
		Title:         meta.Title,
		Timestamp:     meta.Timestamp,
		Date:          meta.Date,
		Time:          meta.Time,
		CaptionCount:  meta.CaptionCount,
		Duration:      meta.Duration,
		Speakers:      meta.Speakers,
		Attendees:     meta.Attendees,
		AttendeeCount: meta.AttendeeCount,
		Preview:       meta.Preview,
		ChunkCount:    meta.ChunkCount,
	}
}

// SaveSessionHistoryRequest archives a completed session.
type SaveSessionHistoryRequest struct {
	Title      string                    `json:"title"`
	Transcript []session.TranscriptEntry `json:"transcript"`
	Report     *session.AttendeeReport   `json:"attendee_report,omitempty"`
}

// SaveSessionHistoryResponse reports the archival outcome.
type SaveSessionHistoryResponse struct {
	Saved     bool   `json:"saved"`
	SessionID string `json:"session_id"`
}

// DownloadCaptionsRequest exports a transcript on user request.
type DownloadCaptionsRequest struct {
	Title          string                    `json:"title"`
	Transcript     []session.TranscriptEntry `json:"transcript"`
	Format         string                    `json:"format"`
	RecordingStart string                    `json:"recording_start"`
	Report         *session.AttendeeReport   `json:"attendee_report,omitempty"`
	Dir            string                    `json:"dir,omitempty"`
}

// DownloadCaptionsResponse carries the written file location.
type DownloadCaptionsResponse struct {
	Saved  bool   `json:"saved"`
	Path   string `json:"path"`
	Format string `json:"format"`
}

// SaveOnLeaveRequest auto-exports when a capture session ends.
type SaveOnLeaveRequest struct {
	Title          string                    `json:"title"`
	Transcript     []session.TranscriptEntry `json:"transcript"`
	RecordingStart string                    `json:"recording_start"`
	Report         *session.AttendeeReport   `json:"attendee_report,omitempty"`
}

// SaveOnLeaveResponse reports whether the auto-save ran or was skipped.
type SaveOnLeaveResponse struct {
	Saved  bool   `json:"saved"`
	Reason string `json:"reason,omitempty"`
}

// DisplayCaptionsRequest stores the transcript for viewer surfaces.
type DisplayCaptionsRequest struct {
	Transcript []session.TranscriptEntry `json:"transcript"`
}

// DisplayCaptionsResponse acknowledges storage.
type DisplayCaptionsResponse struct {
	Stored bool `json:"stored"`
}

// DisplayedCaptionsRequest reads the viewer transcript back.
type DisplayedCaptionsRequest struct{}

// DisplayedCaptionsResponse carries the viewer transcript.
type DisplayedCaptionsResponse struct {
	Transcript []session.TranscriptEntry `json:"transcript"`
}

// StoreScreenshotRequest appends a frame to a meeting's buffer.
type StoreScreenshotRequest struct {
	MeetingID  string             `json:"meeting_id"`
	Screenshot session.Screenshot `json:"screenshot"`
}

// StoreScreenshotResponse reports the retained frame count.
type StoreScreenshotResponse struct {
	Stored bool `json:"stored"`
	Count  int  `json:"count"`
}

// SetCaptureStateRequest signals capture start/stop.
type SetCaptureStateRequest struct {
	Capturing bool   `json:"capturing"`
	MeetingID string `json:"meeting_id"`
}

// SetCaptureStateResponse acknowledges the transition.
type SetCaptureStateResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// ReportErrorRequest records a capture-source error for diagnostics.
type ReportErrorRequest struct {
	Message string `json:"message"`
}

// ReportErrorResponse acknowledges the report.
type ReportErrorResponse struct {
	Recorded bool `json:"recorded"`
}

// SetAliasesRequest replaces the speaker alias map.
type SetAliasesRequest struct {
	Aliases map[string]string `json:"aliases"`
}

// SetAliasesResponse acknowledges the replacement.
type SetAliasesResponse struct {
	Applied bool `json:"applied"`
}

// SessionsRequest lists the archived session index.
type SessionsRequest struct{}

// SessionsResponse contains session summaries, newest first.
type SessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// SessionDescribeRequest fetches one session with its transcript.
type SessionDescribeRequest struct {
	ID string `json:"id"`
}

// SessionDescribeResponse contains a session and its reassembled transcript.
type SessionDescribeResponse struct {
	Session    SessionSummary            `json:"session"`
	Transcript []session.TranscriptEntry `json:"transcript"`
	Report     *session.AttendeeReport   `json:"attendee_report,omitempty"`
}

// SessionDeleteRequest removes a session.
type SessionDeleteRequest struct {
	ID string `json:"id"`
}

// SessionDeleteResponse acknowledges the removal.
type SessionDeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// SessionExportRequest renders an archived session to a file.
type SessionExportRequest struct {
	ID     string `json:"id"`
	Format string `json:"format"`
	Dir    string `json:"dir,omitempty"`
}

// SessionExportResponse carries the written file location.
type SessionExportResponse struct {
	Saved  bool   `json:"saved"`
	Path   string `json:"path"`
	Format string `json:"format"`
}

// ScreenshotsRequest lists the buffered frames for a meeting.
type ScreenshotsRequest struct {
	MeetingID string `json:"meeting_id"`
}

// ScreenshotsResponse carries the buffered frames in capture order.
type ScreenshotsResponse struct {
	Screenshots []session.Screenshot `json:"screenshots"`
}

// TestNotifyRequest asks the daemon to send a test notification.
type TestNotifyRequest struct{}

// TestNotifyResponse reports whether the test notification was sent.
type TestNotifyResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message,omitempty"`
}

// StopRequest asks the daemon process to shut down.
type StopRequest struct{}

// StopResponse acknowledges the shutdown request.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running      bool   `json:"running"`
	DBPath       string `json:"db_path"`
	LockPath     string `json:"lock_path"`
	LastError    string `json:"last_error"`
	Sessions     int    `json:"sessions"`
	Chunks       int    `json:"chunks"`
	Screenshots  int    `json:"screenshots"`
	PID          int    `json:"pid"`
}
