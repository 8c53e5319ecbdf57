package repository

import (
	"encoding/json"
	"fmt"

	"DriftFM/model"

	"gorm.io/gorm"
)

// trackRow is the catalog table layout. Media and cover are stored as
// object keys; URL resolution happens in the storage layer.
type trackRow struct {
	ID           int64   `gorm:"primaryKey"`
	Title        string  `gorm:"column:title"`
	Artists      string  `gorm:"column:artists"` // JSON array of names
	MediaKey     string  `gorm:"column:media_key"`
	CoverKey     string  `gorm:"column:cover_key"`
	Duration     float64 `gorm:"column:duration"`
	Lyrics       string  `gorm:"column:lyrics"`
	PreviewStart float64 `gorm:"column:preview_start"`
}

func (trackRow) TableName() string {
	return "tracks"
}

// CatalogTrack is a catalog entry before media URL resolution.
type CatalogTrack struct {
	Track    model.Track
	MediaKey string
	CoverKey string
}

// TrackRepository looks tracks up in the catalog.
type TrackRepository interface {
	GetTrackByID(id int64) (*CatalogTrack, error)
	GetTracksByIDs(ids []int64) ([]CatalogTrack, error)
}

// GormTrackRepository is the MySQL-backed catalog repository.
type GormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a repository on the given handle.
func NewGormTrackRepository(db *gorm.DB) *GormTrackRepository {
	return &GormTrackRepository{db: db}
}

// GetTrackByID fetches a single catalog track.
func (r *GormTrackRepository) GetTrackByID(id int64) (*CatalogTrack, error) {
	var row trackRow
	if err := r.db.First(&row, id).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch track %d: %w", id, err)
	}
	track := rowToTrack(row)
	return &track, nil
}

// GetTracksByIDs fetches catalog tracks preserving the requested order.
// Unknown ids are skipped.
func (r *GormTrackRepository) GetTracksByIDs(ids []int64) ([]CatalogTrack, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []trackRow
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tracks: %w", err)
	}

	byID := make(map[int64]trackRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	out := make([]CatalogTrack, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			out = append(out, rowToTrack(row))
		}
	}
	return out, nil
}

func rowToTrack(row trackRow) CatalogTrack {
	var artists []string
	if row.Artists != "" {
		// Tolerate malformed rows; an unreadable artist list is not worth
		// failing a playback request over.
		_ = json.Unmarshal([]byte(row.Artists), &artists)
	}

	return CatalogTrack{
		Track: model.Track{
			ID:           row.ID,
			Title:        row.Title,
			Artists:      artists,
			Duration:     row.Duration,
			Lyrics:       row.Lyrics,
			PreviewStart: row.PreviewStart,
		},
		MediaKey: row.MediaKey,
		CoverKey: row.CoverKey,
	}
}
