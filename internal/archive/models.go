package archive

import "time"

// Metadata summarizes one archived session. Speakers holds up to ten names
// in first-seen order; Attendees holds up to twenty names from the attendee
// report.
type Metadata struct {
	ID            string
	Title         string
	Timestamp     int64 // milliseconds since the Unix epoch
	Date          string
	Time          string
	CaptionCount  int
	Duration      string
	Speakers      []string
	Attendees     []string
	AttendeeCount int
	Preview       string
	ChunkCount    int
	CreatedAt     time.Time
}

const (
	maxSpeakerNames  = 10
	maxAttendeeNames = 20
	previewEntries   = 3
	maxPreviewLength = 150
)
