package testsupport

import (
	"fmt"
	"testing"

	"minutes/internal/archive"
	"minutes/internal/config"
	"minutes/internal/session"
)

// MustOpenStore opens an archive.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *archive.Store {
	t.Helper()

	store, err := archive.Open(cfg)
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Transcript builds a transcript with count entries spaced three seconds
// apart, cycling through the provided speaker names.
func Transcript(count int, speakers ...string) []session.TranscriptEntry {
	if len(speakers) == 0 {
		speakers = []string{"Alice", "Bob"}
	}
	entries := make([]session.TranscriptEntry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, session.TranscriptEntry{
			Time: fmt.Sprintf("10:%02d:%02d", (i*3)/60, (i*3)%60),
			Name: speakers[i%len(speakers)],
			Text: fmt.Sprintf("line %d", i),
		})
	}
	return entries
}

// Report builds an attendee report covering the given names.
func Report(startMillis int64, names ...string) *session.AttendeeReport {
	attendees := make([]session.Attendee, 0, len(names))
	for _, name := range names {
		attendees = append(attendees, session.Attendee{Name: name})
	}
	return &session.AttendeeReport{
		AttendeeList:         names,
		CurrentAttendees:     attendees,
		TotalUniqueAttendees: len(names),
		MeetingStartTime:     startMillis,
	}
}
