// Package prefs persists the brochure admin's per-entity layout
// choices in a small local database. These are operator preferences,
// not shared data, so they stay out of the record store.
package prefs

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jpcloudkit/sponsormap/internal/report"
)

// BrochurePref is one entity's stored layout choices.
type BrochurePref struct {
	EntityID       string `gorm:"primaryKey"`
	Page           string
	CustomFilename string
	Size           string
	Position       string
	Extension      string
}

type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the preferences database at path and runs
// migrations.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open prefs db: %w", err)
	}
	if err := db.AutoMigrate(&BrochurePref{}); err != nil {
		return nil, fmt.Errorf("migrate prefs db: %w", err)
	}
	return &Store{db: db}, nil
}

// All returns every stored preference keyed by entity id, in the shape
// the brochure sheet builder consumes.
func (s *Store) All() (map[string]report.PlacementPrefs, error) {
	var rows []BrochurePref
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]report.PlacementPrefs, len(rows))
	for _, r := range rows {
		out[r.EntityID] = report.PlacementPrefs{
			Page:           r.Page,
			CustomFilename: r.CustomFilename,
			Size:           r.Size,
			Position:       r.Position,
			Extension:      r.Extension,
		}
	}
	return out, nil
}

// Get returns one entity's preferences; ok is false when none are
// stored.
func (s *Store) Get(entityID string) (report.PlacementPrefs, bool, error) {
	var row BrochurePref
	err := s.db.First(&row, "entity_id = ?", entityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return report.PlacementPrefs{}, false, nil
	}
	if err != nil {
		return report.PlacementPrefs{}, false, err
	}
	return report.PlacementPrefs{
		Page:           row.Page,
		CustomFilename: row.CustomFilename,
		Size:           row.Size,
		Position:       row.Position,
		Extension:      row.Extension,
	}, true, nil
}

// Put inserts or replaces one entity's preferences.
func (s *Store) Put(entityID string, p report.PlacementPrefs) error {
	return s.db.Save(&BrochurePref{
		EntityID:       entityID,
		Page:           p.Page,
		CustomFilename: p.CustomFilename,
		Size:           p.Size,
		Position:       p.Position,
		Extension:      p.Extension,
	}).Error
}

// Delete removes one entity's preferences; deleting a missing row is
// not an error.
func (s *Store) Delete(entityID string) error {
	return s.db.Delete(&BrochurePref{}, "entity_id = ?", entityID).Error
}
