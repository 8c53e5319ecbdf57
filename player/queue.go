package player

import (
	"math/rand"

	"DriftFM/model"
)

// RepeatMode controls what happens at the end of the queue.
type RepeatMode string

const (
	RepeatOff RepeatMode = "off"
	RepeatAll RepeatMode = "all"
	RepeatOne RepeatMode = "one"
)

// Queue holds the ordered playback sequence and its cursor. It is not safe
// for concurrent use; the coordinator serializes all access.
type Queue struct {
	tracks       []model.Track
	currentIndex int
	shuffle      bool
	repeat       RepeatMode
}

// NewQueue returns an empty queue with the cursor unset.
func NewQueue() *Queue {
	return &Queue{
		currentIndex: -1,
		repeat:       RepeatOff,
	}
}

// Replace swaps in a new track list and resets the cursor to startIndex,
// clamped into range. It returns the track the cursor lands on, or nil for
// an empty list (in which case the cursor becomes -1 and no playback starts).
func (q *Queue) Replace(tracks []model.Track, startIndex int) *model.Track {
	q.tracks = make([]model.Track, len(tracks))
	copy(q.tracks, tracks)

	if len(q.tracks) == 0 {
		q.currentIndex = -1
		return nil
	}

	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(q.tracks) {
		startIndex = len(q.tracks) - 1
	}
	q.currentIndex = startIndex
	return &q.tracks[startIndex]
}

// Len returns the number of tracks in the queue.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// CurrentIndex returns the cursor, -1 when nothing is loaded.
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// SetCurrentIndex moves the cursor. Out-of-range values reset it to -1.
func (q *Queue) SetCurrentIndex(i int) {
	if i < 0 || i >= len(q.tracks) {
		q.currentIndex = -1
		return
	}
	q.currentIndex = i
}

// Current returns the track under the cursor, nil when nothing is loaded.
func (q *Queue) Current() *model.Track {
	if q.currentIndex < 0 || q.currentIndex >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.currentIndex]
}

// At returns the track at index i, nil if out of range.
func (q *Queue) At(i int) *model.Track {
	if i < 0 || i >= len(q.tracks) {
		return nil
	}
	return &q.tracks[i]
}

// Advance computes the next index without moving the cursor. It returns -1
// when there is no next track. Repeat-one is treated like repeat-off here:
// an explicit skip still moves forward; replaying the current track at its
// natural end is the caller's job.
func (q *Queue) Advance() int {
	n := len(q.tracks)
	if n == 0 || q.currentIndex < 0 {
		return -1
	}

	if q.shuffle {
		next := rand.Intn(n)
		// Best-effort anti-repeat, not a statistically uniform shuffle.
		if n > 1 && next == q.currentIndex {
			next = (next + 1) % n
		}
		return next
	}

	if q.currentIndex+1 < n {
		return q.currentIndex + 1
	}
	if q.repeat == RepeatAll {
		return 0
	}
	return -1
}

// Previous computes the index for a "previous" action. restart reports that
// the current track should be restarted instead of moving the cursor; it is
// set at the head of the queue (no wrap to the end).
func (q *Queue) Previous() (index int, restart bool) {
	if q.currentIndex > 0 {
		return q.currentIndex - 1, false
	}
	return q.currentIndex, true
}

// ToggleShuffle flips shuffle mode and returns the new value.
func (q *Queue) ToggleShuffle() bool {
	q.shuffle = !q.shuffle
	return q.shuffle
}

// Shuffle reports whether shuffle mode is on.
func (q *Queue) Shuffle() bool {
	return q.shuffle
}

// CycleRepeat steps the repeat mode off -> all -> one -> off and returns
// the new mode.
func (q *Queue) CycleRepeat() RepeatMode {
	switch q.repeat {
	case RepeatOff:
		q.repeat = RepeatAll
	case RepeatAll:
		q.repeat = RepeatOne
	default:
		q.repeat = RepeatOff
	}
	return q.repeat
}

// Repeat returns the current repeat mode.
func (q *Queue) Repeat() RepeatMode {
	return q.repeat
}
