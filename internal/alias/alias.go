// Package alias applies speaker-name substitutions to transcripts and
// attendee reports. Transforms are pure: inputs are never mutated, and an
// empty alias map returns the input unchanged.
package alias

import (
	"strings"

	"minutes/internal/session"
)

// Map maps an original speaker name to its replacement. Entries whose value
// is blank or whitespace-only are treated as absent.
type Map map[string]string

// resolve returns the trimmed replacement for name, or "" when no usable
// alias exists.
func (m Map) resolve(name string) string {
	replacement, ok := m[name]
	if !ok {
		return ""
	}
	trimmed := strings.TrimSpace(replacement)
	return trimmed
}

// active reports whether the map holds at least one usable alias.
func (m Map) active() bool {
	for _, v := range m {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// ApplyToTranscript returns a copy of entries with speaker names replaced
// according to m. When m carries no usable aliases the input slice is
// returned as-is.
func ApplyToTranscript(entries []session.TranscriptEntry, m Map) []session.TranscriptEntry {
	if len(entries) == 0 || !m.active() {
		return entries
	}
	out := make([]session.TranscriptEntry, len(entries))
	for i, entry := range entries {
		if replacement := m.resolve(entry.Name); replacement != "" {
			entry.Name = replacement
		}
		out[i] = entry
	}
	return out
}

// ApplyToReport returns a copy of report with attendee names replaced
// according to m. The attendee list, current attendees, and attendee history
// are each substituted independently. A nil report or inactive map returns
// the input pointer unchanged.
func ApplyToReport(report *session.AttendeeReport, m Map) *session.AttendeeReport {
	if report == nil || !m.active() {
		return report
	}

	out := &session.AttendeeReport{
		TotalUniqueAttendees: report.TotalUniqueAttendees,
		MeetingStartTime:     report.MeetingStartTime,
	}

	if len(report.AttendeeList) > 0 {
		out.AttendeeList = make([]string, len(report.AttendeeList))
		for i, name := range report.AttendeeList {
			if replacement := m.resolve(name); replacement != "" {
				name = replacement
			}
			out.AttendeeList[i] = name
		}
	}

	if len(report.CurrentAttendees) > 0 {
		out.CurrentAttendees = make([]session.Attendee, len(report.CurrentAttendees))
		for i, attendee := range report.CurrentAttendees {
			if replacement := m.resolve(attendee.Name); replacement != "" {
				attendee.Name = replacement
			}
			out.CurrentAttendees[i] = attendee
		}
	}

	if len(report.AttendeeHistory) > 0 {
		out.AttendeeHistory = make([]session.AttendeeEvent, len(report.AttendeeHistory))
		for i, event := range report.AttendeeHistory {
			if replacement := m.resolve(event.Name); replacement != "" {
				event.Name = replacement
			}
			out.AttendeeHistory[i] = event
		}
	}

	return out
}
