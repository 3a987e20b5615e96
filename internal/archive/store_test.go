package archive_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"minutes/internal/archive"
	"minutes/internal/session"
	"minutes/internal/testsupport"
)

func TestSaveSessionRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	transcript := testsupport.Transcript(5, "Alice", "Bob")
	report := testsupport.Report(1700000000000, "Alice", "Bob", "Carol")

	meta, err := store.SaveSession(ctx, "Weekly Sync", transcript, report)
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if meta.ID == "" {
		t.Fatal("expected a generated session id")
	}
	if meta.CaptionCount != 5 {
		t.Fatalf("caption count = %d", meta.CaptionCount)
	}
	if meta.AttendeeCount != 3 {
		t.Fatalf("attendee count = %d", meta.AttendeeCount)
	}
	if len(meta.Speakers) != 2 || meta.Speakers[0] != "Alice" || meta.Speakers[1] != "Bob" {
		t.Fatalf("speakers = %v", meta.Speakers)
	}
	if !strings.HasPrefix(meta.Preview, "Alice: line 0 | Bob: line 1") {
		t.Fatalf("preview = %q", meta.Preview)
	}

	fetched, err := store.SessionByID(ctx, meta.ID)
	if err != nil {
		t.Fatalf("SessionByID: %v", err)
	}
	if fetched.Title != "Weekly Sync" || fetched.CaptionCount != 5 {
		t.Fatalf("unexpected fetched metadata: %+v", fetched)
	}

	entries, err := store.SessionTranscript(ctx, meta.ID)
	if err != nil {
		t.Fatalf("SessionTranscript: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("transcript length = %d", len(entries))
	}
	for i, entry := range entries {
		if entry != transcript[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, entry, transcript[i])
		}
	}

	gotReport, err := store.SessionAttendees(ctx, meta.ID)
	if err != nil {
		t.Fatalf("SessionAttendees: %v", err)
	}
	if gotReport == nil || gotReport.TotalUniqueAttendees != 3 {
		t.Fatalf("unexpected report: %+v", gotReport)
	}
}

func TestSaveSessionChunksTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithChunkSize(10))
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	transcript := testsupport.Transcript(25, "Alice")
	meta, err := store.SaveSession(ctx, "Chunked", transcript, nil)
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if meta.ChunkCount != 3 {
		t.Fatalf("chunk count = %d, want 3", meta.ChunkCount)
	}

	entries, err := store.SessionTranscript(ctx, meta.ID)
	if err != nil {
		t.Fatalf("SessionTranscript: %v", err)
	}
	if len(entries) != 25 {
		t.Fatalf("reassembled length = %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Text != fmt.Sprintf("line %d", i) {
			t.Fatalf("entry %d out of order: %+v", i, entry)
		}
	}
}

func TestSaveSessionEvictsOldest(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxSessions(3))
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.SaveSession(ctx, fmt.Sprintf("Meeting %d", i), testsupport.Transcript(2), nil); err != nil {
			t.Fatalf("SaveSession %d: %v", i, err)
		}
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("session count = %d, want 3", len(sessions))
	}
	for _, meta := range sessions {
		if meta.Title == "Meeting 0" || meta.Title == "Meeting 1" {
			t.Fatalf("oldest session %q was not evicted", meta.Title)
		}
	}
}

func TestEvictionLeavesNoOrphans(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxSessions(2), testsupport.WithChunkSize(5))
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		report := testsupport.Report(0, "Alice")
		if _, err := store.SaveSession(ctx, fmt.Sprintf("Meeting %d", i), testsupport.Transcript(12), report); err != nil {
			t.Fatalf("SaveSession %d: %v", i, err)
		}
	}

	stats, err := store.ArchiveStats(ctx)
	if err != nil {
		t.Fatalf("ArchiveStats: %v", err)
	}
	if stats.Sessions != 2 {
		t.Fatalf("sessions = %d, want 2", stats.Sessions)
	}
	// 12 entries at chunk size 5 is 3 chunks per retained session.
	if stats.Chunks != 6 {
		t.Fatalf("chunks = %d, want 6", stats.Chunks)
	}
}

func TestSessionsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.SaveSession(ctx, fmt.Sprintf("Meeting %d", i), testsupport.Transcript(1), nil); err != nil {
			t.Fatalf("SaveSession %d: %v", i, err)
		}
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("session count = %d", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i-1].Timestamp < sessions[i].Timestamp {
			t.Fatalf("sessions out of order: %d before %d", sessions[i-1].Timestamp, sessions[i].Timestamp)
		}
	}
}

func TestDeleteSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	meta, err := store.SaveSession(ctx, "Doomed", testsupport.Transcript(2), testsupport.Report(0, "Alice"))
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	if err := store.DeleteSession(ctx, meta.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := store.SessionByID(ctx, meta.ID); !errors.Is(err, archive.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := store.DeleteSession(ctx, meta.ID); !errors.Is(err, archive.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on repeat delete, got %v", err)
	}

	stats, err := store.ArchiveStats(ctx)
	if err != nil {
		t.Fatalf("ArchiveStats: %v", err)
	}
	if stats.Sessions != 0 || stats.Chunks != 0 {
		t.Fatalf("delete left rows behind: %+v", stats)
	}
}

func TestSessionAttendeesMissingReport(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	meta, err := store.SaveSession(ctx, "No Report", testsupport.Transcript(1), nil)
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	report, err := store.SessionAttendees(ctx, meta.ID)
	if err != nil {
		t.Fatalf("SessionAttendees: %v", err)
	}
	if report != nil {
		t.Fatalf("expected nil report, got %+v", report)
	}
}

func TestSpeakerAndAttendeeCaps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	speakers := make([]string, 15)
	for i := range speakers {
		speakers[i] = fmt.Sprintf("Speaker %02d", i)
	}
	attendees := make([]string, 25)
	for i := range attendees {
		attendees[i] = fmt.Sprintf("Attendee %02d", i)
	}

	meta, err := store.SaveSession(ctx, "Big Meeting", testsupport.Transcript(30, speakers...), testsupport.Report(0, attendees...))
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if len(meta.Speakers) != 10 {
		t.Fatalf("speakers capped at %d, want 10", len(meta.Speakers))
	}
	if len(meta.Attendees) != 20 {
		t.Fatalf("attendees capped at %d, want 20", len(meta.Attendees))
	}
	if meta.AttendeeCount != 25 {
		t.Fatalf("attendee count = %d, want the uncapped total", meta.AttendeeCount)
	}
}

func TestSettings(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, ok, err := store.Setting(ctx, "default_format"); err != nil || ok {
		t.Fatalf("expected missing setting, got ok=%v err=%v", ok, err)
	}

	if err := store.SetSetting(ctx, "default_format", "txt"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	value, ok, err := store.Setting(ctx, "default_format")
	if err != nil || !ok || value != "txt" {
		t.Fatalf("Setting = %q ok=%v err=%v", value, ok, err)
	}

	if err := store.SetSetting(ctx, "default_format", "md"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	value, _, err = store.Setting(ctx, "default_format")
	if err != nil || value != "md" {
		t.Fatalf("Setting after overwrite = %q err=%v", value, err)
	}
}

func TestScreenshotPersistence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	frames := []session.Screenshot{
		{DataURL: "data:image/png;base64,AAA", Timestamp: 1000},
		{DataURL: "data:image/png;base64,BBB", Timestamp: 2000},
	}
	if err := store.ReplaceScreenshots(ctx, "meeting-1", frames); err != nil {
		t.Fatalf("ReplaceScreenshots: %v", err)
	}

	got, err := store.ScreenshotFrames(ctx, "meeting-1")
	if err != nil {
		t.Fatalf("ScreenshotFrames: %v", err)
	}
	if len(got) != 2 || got[0].Timestamp != 1000 || got[1].Timestamp != 2000 {
		t.Fatalf("unexpected frames: %+v", got)
	}

	if err := store.DeleteScreenshots(ctx, "meeting-1"); err != nil {
		t.Fatalf("DeleteScreenshots: %v", err)
	}
	got, err = store.ScreenshotFrames(ctx, "meeting-1")
	if err != nil {
		t.Fatalf("ScreenshotFrames after delete: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no frames, got %+v", got)
	}
}
