package player

import (
	"sync"
	"time"
)

// ClockOutput is an Output that advances position on the wall clock. It
// stands in for the platform media element in the headless daemon: position
// moves in real time while playing and the end callback fires when the
// reported duration is reached. Decoding and actual audio delivery happen
// downstream of the media URL and are not this component's concern.
type ClockOutput struct {
	mu         sync.Mutex
	source     string
	duration   float64
	position   float64
	playing    bool
	volume     float64
	tick       time.Duration
	cancel     chan struct{}
	onProgress func(float64)
	onEnded    func()
}

// NewClockOutput creates a stopped output with volume 1.
func NewClockOutput() *ClockOutput {
	return &ClockOutput{
		volume: 1,
		tick:   time.Second,
	}
}

// SetHandlers registers the progress and end callbacks.
func (o *ClockOutput) SetHandlers(onProgress func(seconds float64), onEnded func()) {
	o.mu.Lock()
	o.onProgress = onProgress
	o.onEnded = onEnded
	o.mu.Unlock()
}

// SetSource loads a new source and rewinds to zero, stopping playback.
func (o *ClockOutput) SetSource(url string, durationSeconds float64) {
	o.mu.Lock()
	o.stopLocked()
	o.source = url
	o.duration = durationSeconds
	o.position = 0
	o.mu.Unlock()
}

// Play starts the clock.
func (o *ClockOutput) Play() error {
	o.mu.Lock()
	if o.playing || o.source == "" {
		o.mu.Unlock()
		return nil
	}
	o.playing = true
	cancel := make(chan struct{})
	o.cancel = cancel
	tick := o.tick
	o.mu.Unlock()

	go o.run(cancel, tick)
	return nil
}

// Pause stops the clock, keeping the source and position.
func (o *ClockOutput) Pause() {
	o.mu.Lock()
	o.stopLocked()
	o.mu.Unlock()
}

// Seek moves the position, clamped to [0, duration].
func (o *ClockOutput) Seek(seconds float64) {
	o.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if o.duration > 0 && seconds > o.duration {
		seconds = o.duration
	}
	o.position = seconds
	o.mu.Unlock()
}

// Position returns the current position.
func (o *ClockOutput) Position() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.position
}

// SetVolume sets the volume.
func (o *ClockOutput) SetVolume(v float64) {
	o.mu.Lock()
	o.volume = v
	o.mu.Unlock()
}

// Volume returns the volume.
func (o *ClockOutput) Volume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

func (o *ClockOutput) stopLocked() {
	if o.cancel != nil {
		close(o.cancel)
		o.cancel = nil
	}
	o.playing = false
}

func (o *ClockOutput) run(cancel chan struct{}, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-cancel:
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now

			o.mu.Lock()
			if o.cancel != cancel {
				o.mu.Unlock()
				return
			}
			o.position += elapsed
			ended := o.duration > 0 && o.position >= o.duration
			if ended {
				o.position = o.duration
				o.stopLocked()
			}
			pos := o.position
			onProgress := o.onProgress
			onEnded := o.onEnded
			o.mu.Unlock()

			// Callbacks run without the lock so handlers may call back
			// into the output.
			if onProgress != nil {
				onProgress(pos)
			}
			if ended {
				if onEnded != nil {
					onEnded()
				}
				return
			}
		}
	}
}
