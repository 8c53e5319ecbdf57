package player

import "DriftFM/model"

// PreviewSeconds is the fixed length of the guest preview window.
const PreviewSeconds = 15.0

// PreviewPolicy computes the permitted playback window for unauthenticated
// listeners: a fixed-length snippet anchored at the track's preview offset.
// The UI only ever sees window-relative coordinates; the remapping here is
// an invariant the UI depends on.
type PreviewPolicy struct {
	Length float64
}

// NewPreviewPolicy returns the standard 15-second policy.
func NewPreviewPolicy() PreviewPolicy {
	return PreviewPolicy{Length: PreviewSeconds}
}

// Start returns the raw media position where the preview window begins.
func (p PreviewPolicy) Start(t *model.Track) float64 {
	if t == nil || t.PreviewStart < 0 {
		return 0
	}
	return t.PreviewStart
}

// End returns the raw media position where the preview window ends.
func (p PreviewPolicy) End(t *model.Track) float64 {
	return p.Start(t) + p.Length
}

// ClampRaw clamps a raw media position into the preview window.
func (p PreviewPolicy) ClampRaw(t *model.Track, raw float64) float64 {
	start, end := p.Start(t), p.End(t)
	if raw < start {
		return start
	}
	if raw > end {
		return end
	}
	return raw
}

// UIPosition maps a raw media position to the window-relative position the
// UI sees, clamped to [0, Length].
func (p PreviewPolicy) UIPosition(t *model.Track, raw float64) float64 {
	pos := raw - p.Start(t)
	if pos < 0 {
		return 0
	}
	if pos > p.Length {
		return p.Length
	}
	return pos
}

// UIDuration is the duration the UI sees for any track, regardless of the
// real media duration.
func (p PreviewPolicy) UIDuration() float64 {
	return p.Length
}

// Exceeded reports whether a raw position has reached the window boundary.
func (p PreviewPolicy) Exceeded(t *model.Track, raw float64) bool {
	return raw >= p.End(t)
}
