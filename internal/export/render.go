package export

import (
	"fmt"
	"strings"
	"time"

	"minutes/internal/session"
)

// FormatTxt renders a transcript as plain text. When the report carries at
// least one unique attendee an attendee summary block precedes the
// transcript section.
func FormatTxt(transcript []session.TranscriptEntry, report *session.AttendeeReport) string {
	var lines []string

	if report.HasAttendees() {
		lines = append(lines,
			"=== MEETING ATTENDEES ===",
			fmt.Sprintf("Total Unique Attendees: %d", report.TotalUniqueAttendees),
			"Meeting Started: "+meetingStartLabel(report.MeetingStartTime),
			"Attendees:",
		)
		for _, name := range report.AttendeeList {
			lines = append(lines, "- "+name)
		}
		lines = append(lines, "", "=== TRANSCRIPT ===", "")
	}

	for _, entry := range transcript {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", entry.Time, entry.Name, entry.Text))
	}

	return strings.Join(lines, "\n")
}

// FormatMarkdown renders a transcript as Markdown. Consecutive entries from
// the same speaker are grouped under one bold speaker header; each entry
// becomes a quoted line.
func FormatMarkdown(transcript []session.TranscriptEntry, report *session.AttendeeReport) string {
	var b strings.Builder

	if report.HasAttendees() {
		b.WriteString("# Meeting Attendees\n\n")
		fmt.Fprintf(&b, "**Total Unique Attendees:** %d\n\n", report.TotalUniqueAttendees)
		fmt.Fprintf(&b, "**Meeting Started:** %s\n\n", meetingStartLabel(report.MeetingStartTime))
		b.WriteString("## Attendee List\n\n")
		for _, name := range report.AttendeeList {
			b.WriteString("- " + name + "\n")
		}
		b.WriteString("\n---\n\n# Transcript\n\n")
	}

	previousSpeaker := ""
	for i, entry := range transcript {
		// The first entry always opens a run, even for an empty speaker name.
		if i == 0 || entry.Name != previousSpeaker {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "**%s** _(%s)_:\n", entry.Name, entry.Time)
			previousSpeaker = entry.Name
		}
		b.WriteString("> " + entry.Text + "\n")
	}

	return strings.TrimSpace(b.String())
}

func meetingStartLabel(startMillis int64) string {
	if startMillis <= 0 {
		return "unknown"
	}
	return time.UnixMilli(startMillis).Format("Jan 2, 2006 3:04 PM")
}
