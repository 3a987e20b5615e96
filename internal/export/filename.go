package export

import (
	"fmt"
	"strings"
	"time"

	"minutes/internal/session"
	"minutes/internal/textutil"
)

// GenerateFilename substitutes the supported tokens into pattern and cleans
// up the result. Substitution is literal token replacement, not templating:
// {date}, {time}, {title}, {format}, and {attendees} are recognized; anything
// else passes through untouched. Runs of underscores collapse to one and
// trailing underscores are stripped.
func GenerateFilename(pattern, fullTitle, format string, report *session.AttendeeReport, now time.Time) string {
	pattern = strings.TrimSpace(pattern)

	attendees := ""
	if report.HasAttendees() {
		attendees = fmt.Sprintf("%d_attendees", report.TotalUniqueAttendees)
	}

	replacer := strings.NewReplacer(
		"{date}", now.Format("2006-01-02"),
		"{time}", now.Format("15-04-05"),
		"{title}", SanitizeMeetingTitle(fullTitle),
		"{format}", format,
		"{attendees}", attendees,
	)

	return textutil.CollapseUnderscores(replacer.Replace(pattern))
}
