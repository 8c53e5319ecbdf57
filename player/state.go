package player

import "DriftFM/model"

// State is the coordinator's observable playback state.
type State string

const (
	StateEmpty   State = "empty"   // no current track
	StateLoading State = "loading" // admission or track resolution in flight
	StatePlaying State = "playing"
	StatePaused  State = "paused"
	StateGated   State = "gated" // suspended behind the ad gate
)

// Snapshot is a read-only view of the playback state. Position and duration
// are window-relative for guests and raw media values for authenticated
// listeners; the UI never sees raw guest coordinates.
type Snapshot struct {
	State        State        `json:"state"`
	CurrentTrack *model.Track `json:"currentTrack,omitempty"`
	IsPlaying    bool         `json:"isPlaying"`
	Position     float64      `json:"position"`
	Duration     float64      `json:"duration"`
	Volume       float64      `json:"volume"`
	QueueIndex   int          `json:"queueIndex"`
	QueueLength  int          `json:"queueLength"`
	Shuffle      bool         `json:"shuffle"`
	Repeat       RepeatMode   `json:"repeat"`
}
