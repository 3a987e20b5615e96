package archive

import (
	"fmt"
	"strings"
	"time"

	"minutes/internal/session"
)

var captionTimeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
}

// Duration estimates elapsed meeting time from a transcript's first and last
// caption timestamps. When either timestamp fails to parse the duration is
// estimated at three seconds per caption; when everything fails the raw
// caption count is reported.
func Duration(transcript []session.TranscriptEntry) string {
	if len(transcript) == 0 {
		return "0 min"
	}

	first, okFirst := parseCaptionTime(transcript[0].Time)
	last, okLast := parseCaptionTime(transcript[len(transcript)-1].Time)

	if !okFirst || !okLast {
		estimated := time.Duration(len(transcript)) * 3 * time.Second
		return formatMinutes(estimated)
	}

	elapsed := last.Sub(first)
	if elapsed < 0 {
		// Meeting crossed midnight, or the timestamps are unusable.
		elapsed += 24 * time.Hour
		if elapsed < 0 {
			return fmt.Sprintf("%d captions", len(transcript))
		}
	}
	return formatMinutes(elapsed)
}

func parseCaptionTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range captionTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatMinutes(elapsed time.Duration) string {
	minutes := int(elapsed.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
