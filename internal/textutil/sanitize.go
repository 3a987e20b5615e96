package textutil

import "strings"

// SanitizeFileName replaces characters that are illegal in filenames
// (< > : " / \ | ? * and control characters) with underscores. The result is
// trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteByte('_')
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// CollapseUnderscores reduces runs of consecutive underscores to a single
// underscore and strips any that trail the string.
func CollapseUnderscores(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	previous := false
	for _, r := range value {
		if r == '_' {
			if previous {
				continue
			}
			previous = true
		} else {
			previous = false
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), "_")
}
