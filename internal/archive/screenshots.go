package archive

import (
	"context"
	"fmt"

	"minutes/internal/session"
)

// ScreenshotFrames loads a meeting's persisted frames in capture order.
func (s *Store) ScreenshotFrames(ctx context.Context, meetingID string) ([]session.Screenshot, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT data_url, captured_at_ms FROM screenshots WHERE meeting_id = ? ORDER BY seq`,
		meetingID,
	)
	if err != nil {
		return nil, fmt.Errorf("query screenshots: %w", err)
	}
	defer rows.Close()

	var frames []session.Screenshot
	for rows.Next() {
		var frame session.Screenshot
		if err := rows.Scan(&frame.DataURL, &frame.Timestamp); err != nil {
			return nil, fmt.Errorf("scan screenshot: %w", err)
		}
		frames = append(frames, frame)
	}
	return frames, rows.Err()
}

// ReplaceScreenshots overwrites a meeting's persisted frames with the given
// sequence in one transaction.
func (s *Store) ReplaceScreenshots(ctx context.Context, meetingID string, frames []session.Screenshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin screenshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM screenshots WHERE meeting_id = ?`, meetingID); err != nil {
		return fmt.Errorf("clear screenshots: %w", err)
	}
	for seq, frame := range frames {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO screenshots (meeting_id, seq, data_url, captured_at_ms) VALUES (?, ?, ?, ?)`,
			meetingID, seq, frame.DataURL, frame.Timestamp,
		); err != nil {
			return fmt.Errorf("insert screenshot %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit screenshots: %w", err)
	}
	return nil
}

// DeleteScreenshots removes all persisted frames for a meeting.
func (s *Store) DeleteScreenshots(ctx context.Context, meetingID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM screenshots WHERE meeting_id = ?`, meetingID); err != nil {
		return fmt.Errorf("delete screenshots: %w", err)
	}
	return nil
}
