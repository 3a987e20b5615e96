package export

import (
	"strings"

	"golang.org/x/text/cases"

	"minutes/internal/textutil"
)

// DefaultTitle is the placeholder used when no usable meeting title exists.
const DefaultTitle = "Meeting"

// knownPlatformSuffixes are trailing segments injected by meeting platforms
// into page titles. Matched case-insensitively with Unicode case folding.
var knownPlatformSuffixes = []string{
	"Microsoft Teams",
	"Google Meet",
	"Zoom",
}

var foldCaser = cases.Fold()

// SanitizeMeetingTitle extracts a filesystem-safe meeting name from a raw
// page title. Titles are split on the vertical bar; with more than two parts
// the second is chosen (handles "location | name | platform" patterns),
// otherwise the first. Known platform suffixes are stripped and characters
// illegal in filenames become underscores.
func SanitizeMeetingTitle(fullTitle string) string {
	if strings.TrimSpace(fullTitle) == "" {
		return DefaultTitle
	}

	parts := strings.Split(fullTitle, "|")
	chosen := parts[0]
	if len(parts) > 2 {
		chosen = parts[1]
	}
	chosen = strings.TrimSpace(chosen)
	chosen = stripPlatformSuffix(chosen)

	cleaned := textutil.SanitizeFileName(chosen)
	if cleaned == "" {
		return DefaultTitle
	}
	return cleaned
}

func stripPlatformSuffix(title string) string {
	for _, suffix := range knownPlatformSuffixes {
		if len(title) < len(suffix) {
			continue
		}
		tail := title[len(title)-len(suffix):]
		if foldCaser.String(tail) == foldCaser.String(suffix) {
			return strings.TrimSpace(title[:len(title)-len(suffix)])
		}
	}
	return title
}
