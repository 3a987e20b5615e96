package session

import (
	"fmt"
	"strings"
)

// TranscriptEntry is a single caption line produced by the capture source.
// Entries are immutable once received; transforms return new values.
type TranscriptEntry struct {
	Time string `json:"time"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// Attendee is a participant currently present in the meeting.
type Attendee struct {
	Name string `json:"name"`
}

// AttendeeEvent records a join or leave observed by the capture source.
type AttendeeEvent struct {
	Name      string `json:"name"`
	Event     string `json:"event"`
	Timestamp int64  `json:"timestamp"`
}

// AttendeeReport is the attendee summary produced by the capture source for
// one meeting. It is read-only to this process.
type AttendeeReport struct {
	AttendeeList         []string        `json:"attendeeList"`
	CurrentAttendees     []Attendee      `json:"currentAttendees"`
	AttendeeHistory      []AttendeeEvent `json:"attendeeHistory"`
	TotalUniqueAttendees int             `json:"totalUniqueAttendees"`
	MeetingStartTime     int64           `json:"meetingStartTime"`
}

// Screenshot is a single captured frame. DataURL carries the encoded image
// payload; Timestamp is milliseconds since the Unix epoch.
type Screenshot struct {
	DataURL   string `json:"dataUrl"`
	Timestamp int64  `json:"timestamp"`
}

// HasAttendees reports whether the report carries at least one unique attendee.
func (r *AttendeeReport) HasAttendees() bool {
	return r != nil && r.TotalUniqueAttendees > 0
}

// ValidateTranscript rejects transcripts containing structurally unusable
// entries. Entries with empty text are permitted (silence markers); entries
// missing both name and text are not.
func ValidateTranscript(entries []TranscriptEntry) error {
	for i, entry := range entries {
		if strings.TrimSpace(entry.Name) == "" && strings.TrimSpace(entry.Text) == "" {
			return fmt.Errorf("transcript entry %d has no name or text", i)
		}
	}
	return nil
}

// ValidateScreenshot rejects frames missing the image payload or timestamp.
func ValidateScreenshot(shot Screenshot) error {
	if strings.TrimSpace(shot.DataURL) == "" {
		return fmt.Errorf("screenshot missing image payload")
	}
	if shot.Timestamp <= 0 {
		return fmt.Errorf("screenshot missing timestamp")
	}
	return nil
}
