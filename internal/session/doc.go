// Package session defines the wire-level data model shared between the
// capture source, the daemon, and the archive: transcript entries, attendee
// reports, and screenshots. Records are validated at the process boundary so
// downstream code never sees malformed input.
package session
