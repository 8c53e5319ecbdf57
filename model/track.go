package model

// Track represents an audio track as handed to the player by the catalog.
// The player treats tracks as immutable values; it never owns their storage.
type Track struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	MediaURL     string   `json:"mediaUrl"`
	CoverURL     string   `json:"coverUrl,omitempty"`
	Duration     float64  `json:"duration"` // seconds, server-reported
	Artists      []string `json:"artists"`
	Lyrics       string   `json:"lyrics,omitempty"`
	PreviewStart float64  `json:"previewStart,omitempty"` // guest preview anchor, seconds
}
