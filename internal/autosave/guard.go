// Package autosave deduplicates automatic saves. At most one auto-save runs
// at a time, and each meeting occurrence (identified by title and recording
// start) is saved at most once unless the attempt failed.
package autosave

import (
	"strings"
	"sync"
)

// Guard is the dedup state machine gating automatic saves.
type Guard struct {
	mu         sync.Mutex
	inProgress bool
	savedKey   string
}

// NewGuard returns a guard in the idle state with no remembered key.
func NewGuard() *Guard {
	return &Guard{}
}

// Key derives the meeting occurrence identifier from the meeting title and
// recording start marker.
func Key(title, recordingStart string) string {
	return strings.TrimSpace(title) + "|" + strings.TrimSpace(recordingStart)
}

// Begin requests an auto-save for the given occurrence key. It reports false
// when a save is already in progress or the key was already saved
// successfully; both are silent skips, not errors. On true the caller must
// complete the save and call Finish with the same key.
func (g *Guard) Begin(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inProgress || key == g.savedKey {
		return false
	}
	g.inProgress = true
	g.savedKey = key
	return true
}

// Finish records the outcome of a save started with Begin. A successful save
// retains the key so future duplicates are rejected; a failed save clears it
// so a retry with the same key is permitted. The guard returns to idle either
// way.
func (g *Guard) Finish(key string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.inProgress = false
	if err != nil && g.savedKey == key {
		g.savedKey = ""
	}
}

// Reset returns the guard to a fresh idle state with no remembered key.
// Called when a new capture session starts.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inProgress = false
	g.savedKey = ""
}
