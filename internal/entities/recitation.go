package entities

import (
	"time"
)

// CachedRecitation describes one downloaded audio asset: a chapter recited
// by a given reciter. The row records identity and size only; the payload
// lives in the blob cache under CacheKey and may be evicted externally at
// any time. A row without a blob means "not downloaded", never an error.
type CachedRecitation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ChapterNumber int       `gorm:"index:idx_recitation_owner,unique" json:"chapter_number"`
	ReciterID     string    `gorm:"index:idx_recitation_owner,unique;size:64" json:"reciter_id"`
	SourceURL     string    `gorm:"size:2048" json:"source_url"`
	CacheKey      string    `gorm:"size:128" json:"cache_key"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	DownloadedAt  time.Time `json:"downloaded_at"`
}

func (CachedRecitation) TableName() string {
	return "recitation_cache"
}
