// Package screenshots holds the per-meeting bounded frame buffer: an
// in-memory cache mirrored into the archive's screenshot table. Each meeting
// retains only its most recent frames; the cap is enforced on every append.
package screenshots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"minutes/internal/logging"
	"minutes/internal/session"
)

// Persistence is the durable mirror for screenshot frames. Implemented by
// the archive store.
type Persistence interface {
	ScreenshotFrames(ctx context.Context, meetingID string) ([]session.Screenshot, error)
	ReplaceScreenshots(ctx context.Context, meetingID string, frames []session.Screenshot) error
	DeleteScreenshots(ctx context.Context, meetingID string) error
}

// Buffer caches each meeting's frames in memory and mirrors every change to
// the persistent store.
type Buffer struct {
	store     Persistence
	logger    *slog.Logger
	maxFrames int

	mu    sync.Mutex
	cache map[string][]session.Screenshot
}

// NewBuffer creates a buffer retaining up to maxFrames frames per meeting.
func NewBuffer(store Persistence, maxFrames int, logger *slog.Logger) *Buffer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Buffer{
		store:     store,
		logger:    logging.NewComponentLogger(logger, "screenshots"),
		maxFrames: maxFrames,
		cache:     make(map[string][]session.Screenshot),
	}
}

// Append validates and stores a frame for the given meeting, trimming the
// buffer to the most recent frames when it overflows. It returns the
// retained frame count.
func (b *Buffer) Append(ctx context.Context, meetingID string, frame session.Screenshot) (int, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return 0, errors.New("meeting id cannot be empty")
	}
	if err := session.ValidateScreenshot(frame); err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	frames, err := b.loadLocked(ctx, meetingID)
	if err != nil {
		return 0, err
	}

	frames = append(frames, frame)
	if len(frames) > b.maxFrames {
		frames = frames[len(frames)-b.maxFrames:]
	}

	if err := b.store.ReplaceScreenshots(ctx, meetingID, frames); err != nil {
		return 0, fmt.Errorf("persist screenshots: %w", err)
	}
	b.cache[meetingID] = frames

	b.logger.Debug("screenshot stored",
		logging.String("meeting_id", meetingID),
		logging.Int("frame_count", len(frames)))
	return len(frames), nil
}

// Frames returns a meeting's buffered frames in capture order.
func (b *Buffer) Frames(ctx context.Context, meetingID string) ([]session.Screenshot, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return nil, errors.New("meeting id cannot be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadLocked(ctx, meetingID)
}

// Clear drops a meeting's frames from the cache and the persistent store.
// Invoked when a capture session ends.
func (b *Buffer) Clear(ctx context.Context, meetingID string) error {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return errors.New("meeting id cannot be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.cache, meetingID)
	if err := b.store.DeleteScreenshots(ctx, meetingID); err != nil {
		return fmt.Errorf("delete screenshots: %w", err)
	}

	b.logger.Debug("screenshot buffer cleared", logging.String("meeting_id", meetingID))
	return nil
}

func (b *Buffer) loadLocked(ctx context.Context, meetingID string) ([]session.Screenshot, error) {
	if frames, ok := b.cache[meetingID]; ok {
		return frames, nil
	}
	frames, err := b.store.ScreenshotFrames(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("load screenshots: %w", err)
	}
	b.cache[meetingID] = frames
	return frames, nil
}
