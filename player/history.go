package player

import (
	"context"
	"sync"
	"time"

	"DriftFM/logger"
	"DriftFM/model"
)

// HistoryLimit is the maximum number of tracks kept in the play history.
const HistoryLimit = 20

// HistoryStore persists the history across restarts. The stored value is a
// plain JSON array of tracks under a single well-known key.
type HistoryStore interface {
	Save(ctx context.Context, tracks []model.Track) error
	Load(ctx context.Context) ([]model.Track, error)
}

// History is the bounded most-recent-first play history. It is informational
// only, never an authoritative playback source; persistence failures are
// logged and never interrupt playback.
type History struct {
	mu    sync.Mutex
	limit int
	items []model.Track
	store HistoryStore
}

// NewHistory creates an empty history. store may be nil, in which case the
// history is memory-only.
func NewHistory(store HistoryStore) *History {
	return &History{
		limit: HistoryLimit,
		store: store,
	}
}

// Rehydrate loads the persisted history. Called once at startup.
func (h *History) Rehydrate(ctx context.Context) error {
	if h.store == nil {
		return nil
	}
	items, err := h.store.Load(ctx)
	if err != nil {
		return err
	}
	if len(items) > h.limit {
		items = items[:h.limit]
	}

	h.mu.Lock()
	h.items = items
	h.mu.Unlock()
	return nil
}

// Push records a track at the head of the history. Pushing the track already
// at the head is a no-op; the oldest entry is dropped past the limit. Every
// change is persisted in the background.
func (h *History) Push(track model.Track) {
	h.mu.Lock()
	if len(h.items) > 0 && h.items[0].ID == track.ID {
		h.mu.Unlock()
		return
	}

	items := make([]model.Track, 0, len(h.items)+1)
	items = append(items, track)
	items = append(items, h.items...)
	if len(items) > h.limit {
		items = items[:h.limit]
	}
	h.items = items

	snapshot := make([]model.Track, len(items))
	copy(snapshot, items)
	store := h.store
	h.mu.Unlock()

	if store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Save(ctx, snapshot); err != nil {
			logger.Warn("failed to persist play history", logger.ErrorField(err))
		}
	}()
}

// Items returns a copy of the history, most recent first.
func (h *History) Items() []model.Track {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.Track, len(h.items))
	copy(out, h.items)
	return out
}
