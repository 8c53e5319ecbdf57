package server

import (
	"net/http"
	"time"

	"DriftFM/logger"
	"DriftFM/player"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// PlayerStreamHandler streams playback, ad gate, and login-required events
// to the UI as JSON frames.
func (h *APIHandler) PlayerStreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	id, events := h.coordinator.Subscribe()
	defer h.coordinator.Unsubscribe(id)

	// Initial state so the UI renders without waiting for a change.
	snap := h.coordinator.Snapshot()
	adSnap := h.coordinator.AdGateSnapshot()
	initial := []player.Event{
		{Type: player.EventPlayback, Playback: &snap, Timestamp: time.Now().UnixMilli()},
		{Type: player.EventAdGate, AdGate: &adSnap, Timestamp: time.Now().UnixMilli()},
	}
	for _, ev := range initial {
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}

	// Drain client frames to observe the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debug("websocket write failed", logger.ErrorField(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
