package player

import (
	"testing"

	"DriftFM/model"

	"github.com/stretchr/testify/assert"
)

func TestPreviewWindow(t *testing.T) {
	p := NewPreviewPolicy()
	track := &model.Track{ID: 1, Duration: 240, PreviewStart: 40}

	assert.Equal(t, 40.0, p.Start(track))
	assert.Equal(t, 55.0, p.End(track))
	assert.Equal(t, 15.0, p.UIDuration())
}

func TestPreviewDefaultsToZeroStart(t *testing.T) {
	p := NewPreviewPolicy()
	track := &model.Track{ID: 1, Duration: 240}

	assert.Equal(t, 0.0, p.Start(track))
	assert.Equal(t, 15.0, p.End(track))
}

func TestPreviewClampRaw(t *testing.T) {
	p := NewPreviewPolicy()
	track := &model.Track{ID: 1, Duration: 240, PreviewStart: 40}

	assert.Equal(t, 40.0, p.ClampRaw(track, 10))
	assert.Equal(t, 47.0, p.ClampRaw(track, 47))
	assert.Equal(t, 55.0, p.ClampRaw(track, 120))
}

func TestPreviewUIPosition(t *testing.T) {
	p := NewPreviewPolicy()
	track := &model.Track{ID: 1, Duration: 240, PreviewStart: 40}

	assert.Equal(t, 7.0, p.UIPosition(track, 47))
	assert.Equal(t, 0.0, p.UIPosition(track, 30))
	assert.Equal(t, 15.0, p.UIPosition(track, 80))
}

func TestPreviewExceeded(t *testing.T) {
	p := NewPreviewPolicy()
	track := &model.Track{ID: 1, Duration: 240, PreviewStart: 40}

	assert.False(t, p.Exceeded(track, 54.9))
	assert.True(t, p.Exceeded(track, 55))
	assert.True(t, p.Exceeded(track, 60))
}
