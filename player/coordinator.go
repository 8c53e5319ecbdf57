package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"DriftFM/auth"
	"DriftFM/logger"
	"DriftFM/model"
	"DriftFM/session"

	"github.com/google/uuid"
)

// ConfirmThresholdSeconds is how far into a track playback must get before
// the play session is confirmed against the server. Authenticated listeners
// only; guests never hold a session.
const ConfirmThresholdSeconds = 30.0

// Coordinator is the playback session state machine. It owns the single
// audio output handle, mediates guest and authenticated playback policies,
// drives the queue and history, and arbitrates the ad-gate admission
// protocol. All state mutation is serialized behind one mutex; async
// completions (admission calls, output callbacks) re-read the current state
// under that mutex and discard themselves when superseded.
type Coordinator struct {
	mu      sync.Mutex
	queue   *Queue
	history *History
	preview PreviewPolicy
	tokens  *auth.TokenHolder
	gateway session.Gateway
	out     Output
	adGate  *AdGate
	events  *Broadcaster

	state         State
	current       *model.Track
	volume        float64
	loadID        string // id of the latest load intent; stale completions bail out
	sessionID     string // single pending-confirmation session, superseded not cancelled
	counted       bool   // confirm threshold reached for the current load
	limitNotified bool   // login-required already raised for this boundary excursion
}

// NewCoordinator wires the coordinator to its collaborators and registers
// itself as the output's event handler.
func NewCoordinator(out Output, gateway session.Gateway, tokens *auth.TokenHolder, history *History) *Coordinator {
	c := &Coordinator{
		queue:   NewQueue(),
		history: history,
		preview: NewPreviewPolicy(),
		tokens:  tokens,
		gateway: gateway,
		out:     out,
		events:  NewBroadcaster(),
		state:   StateEmpty,
		volume:  1,
	}
	c.adGate = NewAdGate(func(snap AdGateSnapshot) {
		c.events.Publish(Event{Type: EventAdGate, AdGate: &snap})
	})
	out.SetHandlers(c.handleProgress, c.handleEnded)
	return c
}

// Subscribe registers for state change events.
func (c *Coordinator) Subscribe() (string, <-chan Event) {
	return c.events.Subscribe()
}

// Unsubscribe drops a subscriber.
func (c *Coordinator) Unsubscribe(id string) {
	c.events.Unsubscribe(id)
}

// History exposes the play history for read access.
func (c *Coordinator) History() *History {
	return c.history
}

// AdGateSnapshot returns the current ad gate state.
func (c *Coordinator) AdGateSnapshot() AdGateSnapshot {
	return c.adGate.Snapshot()
}

// PlaySingle resets the queue to just the given track and plays it.
func (c *Coordinator) PlaySingle(track model.Track) {
	c.PlayFromList([]model.Track{track}, 0)
}

// PlayFromList replaces the queue and starts playback at startIndex,
// clamped into range. An empty list unloads the player.
func (c *Coordinator) PlayFromList(tracks []model.Track, startIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := c.queue.Replace(tracks, startIndex)
	if start == nil {
		c.out.Pause()
		c.current = nil
		c.state = StateEmpty
		c.publishLocked()
		return
	}
	c.loadLocked(*start, c.queue.CurrentIndex())
}

// TogglePlayPause pauses a playing track or resumes a paused one. Guests
// resuming get their position re-clamped into the preview window first.
func (c *Coordinator) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return
	}

	switch c.state {
	case StatePlaying:
		c.out.Pause()
		c.state = StatePaused
		c.publishLocked()
	case StatePaused:
		if !c.tokens.Authenticated() {
			raw := c.out.Position()
			if clamped := c.preview.ClampRaw(c.current, raw); clamped != raw {
				c.out.Seek(clamped)
			}
		}
		c.startOutputLocked()
		c.publishLocked()
	}
}

// SkipNext moves to the next track per shuffle and repeat mode. An explicit
// skip moves forward even under repeat-one. At the end of a non-repeating
// queue it does nothing.
func (c *Coordinator) SkipNext() {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.queue.Advance()
	if next < 0 {
		return
	}
	track := c.queue.At(next)
	if track == nil {
		return
	}
	c.loadLocked(*track, next)
}

// SkipPrevious moves to the previous track, or restarts the current one at
// the head of the queue (it never wraps to the end).
func (c *Coordinator) SkipPrevious() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return
	}

	prev, restart := c.queue.Previous()
	if restart {
		start := 0.0
		if !c.tokens.Authenticated() {
			start = c.preview.Start(c.current)
		}
		c.out.Seek(start)
		c.limitNotified = false
		if c.state != StatePlaying {
			c.startOutputLocked()
		}
		c.publishLocked()
		return
	}

	track := c.queue.At(prev)
	if track == nil {
		return
	}
	c.loadLocked(*track, prev)
}

// Seek moves playback to a UI-relative position: window-relative seconds
// for guests, raw media seconds otherwise.
func (c *Coordinator) Seek(uiPosition float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return
	}

	var raw float64
	if !c.tokens.Authenticated() {
		raw = c.preview.ClampRaw(c.current, c.preview.Start(c.current)+uiPosition)
		if raw < c.preview.End(c.current) {
			c.limitNotified = false
		}
	} else {
		raw = uiPosition
		if raw < 0 {
			raw = 0
		}
		if c.current.Duration > 0 && raw > c.current.Duration {
			raw = c.current.Duration
		}
	}
	c.out.Seek(raw)
	c.publishLocked()
}

// SetVolume clamps the volume into [0, 1] and applies it immediately.
func (c *Coordinator) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.volume = v
	c.out.SetVolume(v)
	c.publishLocked()
}

// ToggleShuffle flips shuffle mode.
func (c *Coordinator) ToggleShuffle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.ToggleShuffle()
	c.publishLocked()
}

// CycleRepeat steps the repeat mode.
func (c *Coordinator) CycleRepeat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.CycleRepeat()
	c.publishLocked()
}

// FinishAd closes the ad gate and re-issues the pending resume request
// through the full admission path. The server is not assumed to admit the
// retry unconditionally.
func (c *Coordinator) FinishAd() {
	track, index, ok := c.adGate.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !ok {
		if c.state == StateGated {
			c.state = StatePaused
			if c.current == nil {
				c.state = StateEmpty
			}
			c.publishLocked()
		}
		return
	}
	c.loadLocked(track, index)
}

// Snapshot returns the current observable playback state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// loadLocked is the load-and-play path: admission, cursor update, source
// assignment, history push, playback start. Caller holds c.mu.
func (c *Coordinator) loadLocked(track model.Track, index int) {
	id := uuid.NewString()
	c.loadID = id
	c.sessionID = ""
	c.counted = false

	if !c.tokens.Authenticated() {
		// Guests never touch the admission gateway; their playback is
		// bounded locally by the preview policy.
		c.beginLocked(track, index)
		return
	}

	c.state = StateLoading
	c.publishLocked()

	go func() {
		sessionID, err := c.gateway.StartSession(context.Background(), track.ID)

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.loadID != id {
			// A newer intent won while the admission call was in flight.
			logger.Debug("discarding stale admission result",
				logger.Int64("trackId", track.ID))
			return
		}

		switch {
		case errors.Is(err, session.ErrAdRequired), errors.Is(err, session.ErrAdInProgress):
			logger.Info("playback gated behind ad",
				logger.Int64("trackId", track.ID))
			c.state = StateGated
			c.publishLocked()
			c.adGate.Open(track, index)
			return
		case err != nil:
			// Fail open: a broken admission backend must not brick playback.
			logger.Warn("play session admission failed, playing anyway",
				logger.Int64("trackId", track.ID),
				logger.ErrorField(err))
		default:
			c.sessionID = sessionID
		}
		c.beginLocked(track, index)
	}()
}

// beginLocked assigns the source and starts playback. Caller holds c.mu.
func (c *Coordinator) beginLocked(track model.Track, index int) {
	// An admitted load supersedes an open gate: the countdown stops and the
	// gated request is abandoned, never queued behind the new track.
	c.adGate.Abandon()

	c.queue.SetCurrentIndex(index)
	t := track
	c.current = &t
	c.counted = false
	c.limitNotified = false

	c.out.SetSource(track.MediaURL, track.Duration)
	start := 0.0
	if !c.tokens.Authenticated() {
		start = c.preview.Start(&t)
	}
	c.out.Seek(start)
	c.out.SetVolume(c.volume)

	c.history.Push(t)

	c.startOutputLocked()
	c.publishLocked()
}

// startOutputLocked issues Play and folds an autoplay-style rejection into
// the paused state. Caller holds c.mu.
func (c *Coordinator) startOutputLocked() {
	if err := c.out.Play(); err != nil {
		logger.Warn("output refused to start playback", logger.ErrorField(err))
		c.state = StatePaused
		return
	}
	c.state = StatePlaying
}

// handleProgress is the output progress callback.
func (c *Coordinator) handleProgress(position float64) {
	c.mu.Lock()

	if c.current == nil {
		c.mu.Unlock()
		return
	}

	if !c.tokens.Authenticated() {
		if c.preview.Exceeded(c.current, position) {
			c.out.Pause()
			c.out.Seek(c.preview.Start(c.current))
			c.state = StatePaused
			notify := !c.limitNotified
			c.limitNotified = true
			c.publishLocked()
			c.mu.Unlock()
			if notify {
				c.events.Publish(Event{Type: EventLoginRequired})
			}
			return
		}
		c.publishLocked()
		c.mu.Unlock()
		return
	}

	if c.state == StatePlaying && !c.counted && c.sessionID != "" && position >= ConfirmThresholdSeconds {
		c.counted = true
		sessionID := c.sessionID
		go c.confirm(sessionID)
	}
	c.publishLocked()
	c.mu.Unlock()
}

// handleEnded is the output end-of-media callback.
func (c *Coordinator) handleEnded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return
	}

	if !c.tokens.Authenticated() {
		// Guests never auto-advance: rewind to the preview anchor and stop.
		c.out.Seek(c.preview.Start(c.current))
		c.state = StatePaused
		c.publishLocked()
		return
	}

	if c.queue.Repeat() == RepeatOne {
		// Replay is not a new load: the session and counted flag carry over,
		// so an already-confirmed session is never confirmed twice.
		c.out.Seek(0)
		c.startOutputLocked()
		c.publishLocked()
		return
	}

	next := c.queue.Advance()
	if next < 0 {
		// End of a non-repeating queue: last track stays loaded, stopped.
		c.state = StatePaused
		c.publishLocked()
		return
	}
	track := c.queue.At(next)
	if track == nil {
		c.state = StatePaused
		c.publishLocked()
		return
	}
	c.loadLocked(*track, next)
}

// confirm reports the counted threshold to the server. Fire-and-forget:
// failures are logged, never surfaced, never retried.
func (c *Coordinator) confirm(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.gateway.ConfirmSession(ctx, sessionID); err != nil {
		logger.Warn("failed to confirm play session",
			logger.String("sessionId", sessionID),
			logger.ErrorField(err))
	}
}

func (c *Coordinator) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:        c.state,
		CurrentTrack: c.current,
		IsPlaying:    c.state == StatePlaying,
		Volume:       c.volume,
		QueueIndex:   c.queue.CurrentIndex(),
		QueueLength:  c.queue.Len(),
		Shuffle:      c.queue.Shuffle(),
		Repeat:       c.queue.Repeat(),
	}

	if c.current != nil {
		raw := c.out.Position()
		if !c.tokens.Authenticated() {
			snap.Position = c.preview.UIPosition(c.current, raw)
			snap.Duration = c.preview.UIDuration()
		} else {
			snap.Position = raw
			snap.Duration = c.current.Duration
		}
	}
	return snap
}

func (c *Coordinator) publishLocked() {
	snap := c.snapshotLocked()
	c.events.Publish(Event{Type: EventPlayback, Playback: &snap})
}
