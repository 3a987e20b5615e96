package export

import (
	"strings"
	"testing"
	"time"

	"minutes/internal/session"
)

func sampleTranscript() []session.TranscriptEntry {
	return []session.TranscriptEntry{
		{Time: "10:00", Name: "Alice", Text: "Hi"},
		{Time: "10:01", Name: "Alice", Text: "Shall we start?"},
		{Time: "10:02", Name: "Bob", Text: "Yes"},
	}
}

func sampleReport() *session.AttendeeReport {
	return &session.AttendeeReport{
		AttendeeList:         []string{"Alice", "Bob"},
		TotalUniqueAttendees: 2,
		MeetingStartTime:     time.Date(2026, 3, 14, 15, 4, 0, 0, time.Local).UnixMilli(),
	}
}

func TestFormatTxtWithoutReport(t *testing.T) {
	got := FormatTxt(sampleTranscript(), nil)
	want := "[10:00] Alice: Hi\n[10:01] Alice: Shall we start?\n[10:02] Bob: Yes"
	if got != want {
		t.Fatalf("FormatTxt = %q, want %q", got, want)
	}
}

func TestFormatTxtWithReport(t *testing.T) {
	got := FormatTxt(sampleTranscript(), sampleReport())

	wantPrefix := strings.Join([]string{
		"=== MEETING ATTENDEES ===",
		"Total Unique Attendees: 2",
		"Meeting Started: Mar 14, 2026 3:04 PM",
		"Attendees:",
		"- Alice",
		"- Bob",
		"",
		"=== TRANSCRIPT ===",
		"",
		"[10:00] Alice: Hi",
	}, "\n")
	if !strings.HasPrefix(got, wantPrefix) {
		t.Fatalf("unexpected txt output:\n%s", got)
	}
}

func TestFormatTxtEmptyReportOmitsSummary(t *testing.T) {
	got := FormatTxt(sampleTranscript(), &session.AttendeeReport{})
	if strings.Contains(got, "MEETING ATTENDEES") {
		t.Fatalf("empty report should not produce a summary block:\n%s", got)
	}
}

func TestFormatMarkdownGroupsSpeakerRuns(t *testing.T) {
	got := FormatMarkdown(sampleTranscript(), nil)
	want := strings.Join([]string{
		"**Alice** _(10:00)_:",
		"> Hi",
		"> Shall we start?",
		"",
		"**Bob** _(10:02)_:",
		"> Yes",
	}, "\n")
	if got != want {
		t.Fatalf("FormatMarkdown = %q, want %q", got, want)
	}
}

func TestFormatMarkdownLeadingUnnamedSpeaker(t *testing.T) {
	transcript := []session.TranscriptEntry{
		{Time: "10:00", Name: "", Text: "joining audio"},
		{Time: "10:01", Name: "Alice", Text: "Hi"},
	}
	got := FormatMarkdown(transcript, nil)
	want := strings.Join([]string{
		"**** _(10:00)_:",
		"> joining audio",
		"",
		"**Alice** _(10:01)_:",
		"> Hi",
	}, "\n")
	if got != want {
		t.Fatalf("FormatMarkdown = %q, want %q", got, want)
	}
}

func TestFormatMarkdownWithReport(t *testing.T) {
	got := FormatMarkdown(sampleTranscript(), sampleReport())
	for _, fragment := range []string{
		"# Meeting Attendees",
		"**Total Unique Attendees:** 2",
		"**Meeting Started:** Mar 14, 2026 3:04 PM",
		"## Attendee List",
		"- Alice",
		"---",
		"# Transcript",
		"**Alice** _(10:00)_:",
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("markdown output missing %q:\n%s", fragment, got)
		}
	}
}

func TestMeetingStartLabelUnknown(t *testing.T) {
	if got := meetingStartLabel(0); got != "unknown" {
		t.Fatalf("meetingStartLabel(0) = %q", got)
	}
}
