package entities

import (
	"time"
)

// LocationCacheEntry holds incidental location-keyed data, such as one day's
// prayer times for a coordinate. Keyed by (location_key, for_date); the data
// column is opaque JSON owned by the caller.
type LocationCacheEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LocationKey string    `gorm:"index:idx_location_date,unique;size:128" json:"location_key"`
	ForDate     string    `gorm:"index:idx_location_date,unique;size:10" json:"for_date"` // YYYY-MM-DD
	Data        string    `gorm:"type:text" json:"data"`
	CachedAt    time.Time `json:"cached_at"`
}

func (LocationCacheEntry) TableName() string {
	return "location_cache"
}
