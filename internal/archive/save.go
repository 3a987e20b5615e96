package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"minutes/internal/session"
)

// SaveSession archives a completed session: it builds the metadata row,
// splits the transcript into fixed-size chunks, persists the attendee report
// when present, and evicts the oldest session once the index exceeds its cap.
// The whole save runs in one transaction so a failure leaves no partial rows.
func (s *Store) SaveSession(ctx context.Context, title string, transcript []session.TranscriptEntry, report *session.AttendeeReport) (*Metadata, error) {
	now := time.Now()
	meta := buildMetadata(title, transcript, report, now, s.chunkSize)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	speakersJSON, err := json.Marshal(meta.Speakers)
	if err != nil {
		return nil, fmt.Errorf("marshal speakers: %w", err)
	}
	attendeesJSON, err := json.Marshal(meta.Attendees)
	if err != nil {
		return nil, fmt.Errorf("marshal attendees: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO sessions (
            id, title, timestamp_ms, date, time, caption_count, duration,
            speakers_json, attendees_json, attendee_count, preview,
            chunk_count, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID,
		meta.Title,
		meta.Timestamp,
		meta.Date,
		meta.Time,
		meta.CaptionCount,
		meta.Duration,
		string(speakersJSON),
		string(attendeesJSON),
		meta.AttendeeCount,
		meta.Preview,
		meta.ChunkCount,
		meta.CreatedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	for index := 0; index < meta.ChunkCount; index++ {
		start := index * s.chunkSize
		end := min(start+s.chunkSize, len(transcript))
		entriesJSON, err := json.Marshal(transcript[start:end])
		if err != nil {
			return nil, fmt.Errorf("marshal chunk %d: %w", index, err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO session_chunks (session_id, chunk_index, entries_json) VALUES (?, ?, ?)`,
			meta.ID, index, string(entriesJSON),
		); err != nil {
			return nil, fmt.Errorf("insert chunk %d: %w", index, err)
		}
	}

	if report != nil {
		reportJSON, err := json.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("marshal attendee report: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO session_attendees (session_id, report_json) VALUES (?, ?)`,
			meta.ID, string(reportJSON),
		); err != nil {
			return nil, fmt.Errorf("insert attendee report: %w", err)
		}
	}

	if err := s.evictOverflow(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return meta, nil
}

// evictOverflow removes sessions with the lowest timestamp until the index
// fits the cap. Oldest-by-timestamp is the documented eviction rule even when
// saves complete out of chronological order.
func (s *Store) evictOverflow(ctx context.Context, tx *sql.Tx) error {
	for {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions`).Scan(&count); err != nil {
			return fmt.Errorf("count sessions: %w", err)
		}
		if count <= s.maxSessions {
			return nil
		}

		var victim string
		err := tx.QueryRowContext(
			ctx,
			`SELECT id FROM sessions ORDER BY timestamp_ms ASC, created_at ASC, id ASC LIMIT 1`,
		).Scan(&victim)
		if err != nil {
			return fmt.Errorf("select eviction victim: %w", err)
		}

		for _, stmt := range []string{
			`DELETE FROM session_chunks WHERE session_id = ?`,
			`DELETE FROM session_attendees WHERE session_id = ?`,
			`DELETE FROM sessions WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, victim); err != nil {
				return fmt.Errorf("evict session %s: %w", victim, err)
			}
		}
	}
}

func buildMetadata(title string, transcript []session.TranscriptEntry, report *session.AttendeeReport, now time.Time, chunkSize int) *Metadata {
	meta := &Metadata{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(title),
		Timestamp:    now.UnixMilli(),
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
		CaptionCount: len(transcript),
		Duration:     Duration(transcript),
		ChunkCount:   (len(transcript) + chunkSize - 1) / chunkSize,
		CreatedAt:    now,
	}
	if meta.Title == "" {
		meta.Title = "Meeting"
	}

	seen := make(map[string]struct{})
	for _, entry := range transcript {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		meta.Speakers = append(meta.Speakers, name)
		if len(meta.Speakers) == maxSpeakerNames {
			break
		}
	}

	if report != nil {
		for _, name := range report.AttendeeList {
			meta.Attendees = append(meta.Attendees, name)
			if len(meta.Attendees) == maxAttendeeNames {
				break
			}
		}
		meta.AttendeeCount = report.TotalUniqueAttendees
	}

	meta.Preview = buildPreview(transcript)
	return meta
}

func buildPreview(transcript []session.TranscriptEntry) string {
	parts := make([]string, 0, previewEntries)
	for _, entry := range transcript {
		parts = append(parts, entry.Name+": "+entry.Text)
		if len(parts) == previewEntries {
			break
		}
	}
	preview := strings.Join(parts, " | ")
	if len(preview) > maxPreviewLength {
		preview = preview[:maxPreviewLength-3] + "..."
	}
	return preview
}

// Sessions returns the archived session index ordered by timestamp
// descending (newest first).
func (s *Store) Sessions(ctx context.Context) ([]*Metadata, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY timestamp_ms DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Metadata
	for rows.Next() {
		meta, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, meta)
	}
	return sessions, rows.Err()
}

// SessionByID fetches one session's metadata.
func (s *Store) SessionByID(ctx context.Context, id string) (*Metadata, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	meta, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return meta, nil
}

// SessionTranscript reassembles a session's transcript from its chunk rows
// in index order.
func (s *Store) SessionTranscript(ctx context.Context, id string) ([]session.TranscriptEntry, error) {
	if _, err := s.SessionByID(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT entries_json FROM session_chunks WHERE session_id = ? ORDER BY chunk_index`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var transcript []session.TranscriptEntry
	for rows.Next() {
		var entriesJSON string
		if err := rows.Scan(&entriesJSON); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		var entries []session.TranscriptEntry
		if err := json.Unmarshal([]byte(entriesJSON), &entries); err != nil {
			return nil, fmt.Errorf("decode chunk: %w", err)
		}
		transcript = append(transcript, entries...)
	}
	return transcript, rows.Err()
}

// SessionAttendees returns a session's attendee report, or nil when the
// session was saved without one.
func (s *Store) SessionAttendees(ctx context.Context, id string) (*session.AttendeeReport, error) {
	if _, err := s.SessionByID(ctx, id); err != nil {
		return nil, err
	}

	var reportJSON string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM session_attendees WHERE session_id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query attendee report: %w", err)
	}

	var report session.AttendeeReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("decode attendee report: %w", err)
	}
	return &report, nil
}

// DeleteSession removes a session and all of its chunk and attendee rows.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	for _, stmt := range []string{
		`DELETE FROM session_chunks WHERE session_id = ?`,
		`DELETE FROM session_attendees WHERE session_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete session data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// Stats summarizes archive contents for diagnostics.
type Stats struct {
	Sessions    int
	Chunks      int
	Screenshots int
}

// ArchiveStats returns row counts for diagnostic output.
func (s *Store) ArchiveStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions`).Scan(&stats.Sessions); err != nil {
		return Stats{}, fmt.Errorf("count sessions: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM session_chunks`).Scan(&stats.Chunks); err != nil {
		return Stats{}, fmt.Errorf("count chunks: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM screenshots`).Scan(&stats.Screenshots); err != nil {
		return Stats{}, fmt.Errorf("count screenshots: %w", err)
	}
	return stats, nil
}

const sessionColumns = "id, title, timestamp_ms, date, time, caption_count, duration, speakers_json, attendees_json, attendee_count, preview, chunk_count, created_at"

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Metadata, error) {
	var (
		meta          Metadata
		speakersJSON  string
		attendeesJSON string
		createdRaw    string
	)
	if err := scanner.Scan(
		&meta.ID,
		&meta.Title,
		&meta.Timestamp,
		&meta.Date,
		&meta.Time,
		&meta.CaptionCount,
		&meta.Duration,
		&speakersJSON,
		&attendeesJSON,
		&meta.AttendeeCount,
		&meta.Preview,
		&meta.ChunkCount,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(speakersJSON), &meta.Speakers); err != nil {
		return nil, fmt.Errorf("decode speakers: %w", err)
	}
	if err := json.Unmarshal([]byte(attendeesJSON), &meta.Attendees); err != nil {
		return nil, fmt.Errorf("decode attendees: %w", err)
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		meta.CreatedAt = created
	}
	return &meta, nil
}
