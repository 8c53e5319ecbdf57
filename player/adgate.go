package player

import (
	"sync"
	"time"

	"DriftFM/model"
)

// AdCountdownSeconds is the countdown before an ad becomes skippable.
const AdCountdownSeconds = 5

// AdGatePhase is the ad gate's observable phase.
type AdGatePhase string

const (
	AdGateIdle      AdGatePhase = "idle"
	AdGateCountdown AdGatePhase = "countdown"
	AdGateSkippable AdGatePhase = "skippable"
)

// AdGateSnapshot drives the ad display UI.
type AdGateSnapshot struct {
	Phase       AdGatePhase `json:"phase"`
	SecondsLeft int         `json:"secondsLeft"`
	SkipAllowed bool        `json:"skipAllowed"`
}

// resumeRequest is the track that should play once the gate closes.
type resumeRequest struct {
	track model.Track
	index int
}

// AdGate models the interruption that suspends the coordinator when the
// admission backend demands an advertisement. It holds at most one pending
// resume request; a newer gated request overwrites the old one, it is never
// queued behind it.
type AdGate struct {
	mu          sync.Mutex
	phase       AdGatePhase
	secondsLeft int
	pending     *resumeRequest
	cancel      chan struct{}
	tick        time.Duration
	onChange    func(AdGateSnapshot)
}

// NewAdGate creates an idle gate. onChange is invoked on every phase or
// countdown change; it must not call back into the gate.
func NewAdGate(onChange func(AdGateSnapshot)) *AdGate {
	return &AdGate{
		phase:    AdGateIdle,
		tick:     time.Second,
		onChange: onChange,
	}
}

// Open arms the gate for the given track, overwriting any pending resume
// request, and starts the countdown.
func (g *AdGate) Open(track model.Track, index int) {
	g.mu.Lock()
	g.stopCountdownLocked()
	g.pending = &resumeRequest{track: track, index: index}
	g.phase = AdGateCountdown
	g.secondsLeft = AdCountdownSeconds
	cancel := make(chan struct{})
	g.cancel = cancel
	tick := g.tick
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.emit(snap)
	go g.countdown(cancel, tick)
}

// Finish closes the gate and returns the pending resume request, nil if
// none. It is meaningful once skippable but safe from any phase; calling it
// during the countdown is a forced skip that simply cancels the countdown.
func (g *AdGate) Finish() (track model.Track, index int, ok bool) {
	g.mu.Lock()
	g.stopCountdownLocked()
	pending := g.pending
	g.pending = nil
	changed := g.phase != AdGateIdle
	g.phase = AdGateIdle
	g.secondsLeft = 0
	snap := g.snapshotLocked()
	g.mu.Unlock()

	if changed {
		g.emit(snap)
	}
	if pending == nil {
		return model.Track{}, 0, false
	}
	return pending.track, pending.index, true
}

// Abandon closes the gate and discards the pending resume request without
// returning it. Used when a newer load is admitted while the gate is open;
// the gated track never plays. Safe to call on an idle gate.
func (g *AdGate) Abandon() {
	g.mu.Lock()
	g.stopCountdownLocked()
	g.pending = nil
	changed := g.phase != AdGateIdle
	g.phase = AdGateIdle
	g.secondsLeft = 0
	snap := g.snapshotLocked()
	g.mu.Unlock()

	if changed {
		g.emit(snap)
	}
}

// Snapshot returns the current gate state.
func (g *AdGate) Snapshot() AdGateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *AdGate) snapshotLocked() AdGateSnapshot {
	return AdGateSnapshot{
		Phase:       g.phase,
		SecondsLeft: g.secondsLeft,
		SkipAllowed: g.phase == AdGateSkippable,
	}
}

func (g *AdGate) stopCountdownLocked() {
	if g.cancel != nil {
		close(g.cancel)
		g.cancel = nil
	}
}

func (g *AdGate) countdown(cancel chan struct{}, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			g.mu.Lock()
			if g.cancel != cancel {
				g.mu.Unlock()
				return
			}
			g.secondsLeft--
			done := g.secondsLeft <= 0
			if done {
				g.secondsLeft = 0
				g.phase = AdGateSkippable
				g.cancel = nil
			}
			snap := g.snapshotLocked()
			g.mu.Unlock()

			g.emit(snap)
			if done {
				return
			}
		}
	}
}

func (g *AdGate) emit(snap AdGateSnapshot) {
	if g.onChange != nil {
		g.onChange(snap)
	}
}
