// Package locations provides database operations for the location-scoped cache.
//
// Entries are keyed by (locationKey, forDate) and hold opaque JSON, typically
// one day's prayer times for a coordinate.
package locations

import (
	"time"

	"gorm.io/gorm"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

// Repository handles all location cache database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new locations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the cached entry for (locationKey, forDate), or
// gorm.ErrRecordNotFound on a miss.
func (r *Repository) Get(locationKey, forDate string) (*entities.LocationCacheEntry, error) {
	var entry entities.LocationCacheEntry
	err := r.db.Where("location_key = ? AND for_date = ?", locationKey, forDate).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Put stores data for (locationKey, forDate), replacing any existing entry.
func (r *Repository) Put(locationKey, forDate, data string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("location_key = ? AND for_date = ?", locationKey, forDate).
			Delete(&entities.LocationCacheEntry{}).Error
		if err != nil {
			return err
		}
		entry := entities.LocationCacheEntry{
			LocationKey: locationKey,
			ForDate:     forDate,
			Data:        data,
			CachedAt:    time.Now(),
		}
		return tx.Create(&entry).Error
	})
}

// PruneBefore deletes entries for dates strictly before cutoff (YYYY-MM-DD).
// Returns the number of rows removed.
func (r *Repository) PruneBefore(cutoff string) (int64, error) {
	result := r.db.Where("for_date < ?", cutoff).Delete(&entities.LocationCacheEntry{})
	return result.RowsAffected, result.Error
}
