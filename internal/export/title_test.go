package export

import "testing"

func TestSanitizeMeetingTitle(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain title", "Weekly Sync", "Weekly Sync"},
		{"empty", "", "Meeting"},
		{"whitespace only", "   ", "Meeting"},
		{"two parts takes first", "Weekly Sync | Microsoft Teams", "Weekly Sync"},
		{"three parts takes second", "Room A | Standup | Microsoft Teams", "Standup"},
		{"suffix case insensitive", "Planning microsoft teams", "Planning"},
		{"google meet suffix", "Retro Google Meet", "Retro"},
		{"zoom suffix", "All Hands Zoom", "All Hands"},
		{"illegal characters", `Q3: "Plans" <draft>`, "Q3_ _Plans_ _draft_"},
		{"only illegal characters", `<>:"/\`, "______"},
		{"suffix alone", "Microsoft Teams", "Meeting"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeMeetingTitle(tc.input); got != tc.want {
				t.Fatalf("SanitizeMeetingTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
