package player

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"DriftFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory HistoryStore that round-trips through JSON the
// way the real store does.
type memStore struct {
	mu      sync.Mutex
	payload []byte
	saves   int
}

func (s *memStore) Save(_ context.Context, tracks []model.Track) error {
	payload, err := json.Marshal(tracks)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.payload = payload
	s.saves++
	s.mu.Unlock()
	return nil
}

func (s *memStore) Load(_ context.Context) ([]model.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil {
		return []model.Track{}, nil
	}
	var tracks []model.Track
	if err := json.Unmarshal(s.payload, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func TestHistoryPushOrdersMostRecentFirst(t *testing.T) {
	h := NewHistory(nil)

	h.Push(model.Track{ID: 1, Title: "one"})
	h.Push(model.Track{ID: 2, Title: "two"})
	h.Push(model.Track{ID: 3, Title: "three"})

	items := h.Items()
	require.Len(t, items, 3)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)
	assert.Equal(t, int64(1), items[2].ID)
}

func TestHistoryHeadDedup(t *testing.T) {
	h := NewHistory(nil)

	h.Push(model.Track{ID: 1})
	h.Push(model.Track{ID: 2})
	h.Push(model.Track{ID: 2})

	items := h.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)

	// Dedup is against the head only; the same track further down is
	// pushed again.
	h.Push(model.Track{ID: 1})
	assert.Len(t, h.Items(), 3)
}

func TestHistoryDropsOldestPastLimit(t *testing.T) {
	h := NewHistory(nil)

	for i := 1; i <= HistoryLimit+1; i++ {
		h.Push(model.Track{ID: int64(i)})
	}

	items := h.Items()
	require.Len(t, items, HistoryLimit)
	assert.Equal(t, int64(HistoryLimit+1), items[0].ID)
	// Track 1 fell off the end.
	assert.Equal(t, int64(2), items[len(items)-1].ID)
}

func TestHistoryRoundTrip(t *testing.T) {
	store := &memStore{}
	h := NewHistory(store)

	h.Push(model.Track{ID: 1, Title: "one", Artists: []string{"A"}, Duration: 180})
	h.Push(model.Track{ID: 2, Title: "two", Artists: []string{"B", "C"}, Duration: 200, PreviewStart: 30})

	require.Eventually(t, func() bool {
		return store.saveCount() == 2
	}, time.Second, 10*time.Millisecond)

	restored := NewHistory(store)
	require.NoError(t, restored.Rehydrate(context.Background()))
	assert.Equal(t, h.Items(), restored.Items())
}

func TestHistoryDedupDoesNotPersist(t *testing.T) {
	store := &memStore{}
	h := NewHistory(store)

	h.Push(model.Track{ID: 1})
	h.Push(model.Track{ID: 1})

	require.Eventually(t, func() bool {
		return store.saveCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, store.saveCount())
}
