package player

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType tags the events published by the coordinator.
type EventType string

const (
	// EventPlayback carries a new playback state snapshot.
	EventPlayback EventType = "playback"
	// EventAdGate carries a new ad gate snapshot.
	EventAdGate EventType = "ad_gate"
	// EventLoginRequired is raised once when a guest reaches the preview
	// boundary. The UI is expected to render a login prompt.
	EventLoginRequired EventType = "login_required"
)

// Event is a single state change notification.
type Event struct {
	Type      EventType       `json:"type"`
	Playback  *Snapshot       `json:"playback,omitempty"`
	AdGate    *AdGateSnapshot `json:"adGate,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Broadcaster fans events out to subscribers. Sends never block: a
// subscriber that falls behind loses events rather than stalling playback.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan Event),
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (b *Broadcaster) Subscribe() (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers an event to all subscribers.
func (b *Broadcaster) Publish(ev Event) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
