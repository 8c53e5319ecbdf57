package player

// Output is the single audio output handle. It is exclusively owned by the
// coordinator; no other component touches its source, position, or play
// state. Implementations deliver progress and end-of-media callbacks from
// their own goroutine, without holding internal locks.
type Output interface {
	// SetSource loads a new media source. Playback does not start until
	// Play is called.
	SetSource(url string, durationSeconds float64)
	// Play starts or resumes playback. An error means the platform refused
	// to start (the autoplay-rejection case); the source stays loaded.
	Play() error
	// Pause stops playback without unloading the source.
	Pause()
	// Seek moves the raw media position.
	Seek(seconds float64)
	// Position returns the current raw media position.
	Position() float64
	// SetVolume sets the output volume in [0, 1].
	SetVolume(v float64)
	// SetHandlers registers the progress and end-of-media callbacks.
	SetHandlers(onProgress func(seconds float64), onEnded func())
}
