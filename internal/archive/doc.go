// Package archive persists completed meeting sessions in SQLite: a bounded,
// time-ordered session index, transcript chunks, attendee blobs, the
// screenshot mirror, and the settings table. The index is capped; saving past
// the cap evicts the oldest session together with all of its chunk and
// attendee rows so no orphaned data survives eviction.
package archive
