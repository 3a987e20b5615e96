// Package export renders archived transcripts into the supported text
// formats and writes them to the export destination. Filename generation is
// pattern-driven with literal token substitution; rendering is deterministic
// for a given transcript and attendee report.
package export
