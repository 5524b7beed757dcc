// Package recitations provides database operations for cached recitation metadata.
//
// This package implements the MetadataStore interface used by the audio cache service.
//
// # Interface Implementation
//
//	var _ audiocache.MetadataStore = (*Repository)(nil)
//
// # Usage
//
//	repo := recitations.NewRepository(db)
//	meta, err := repo.Get(chapterNumber, reciterID)
package recitations

import (
	"gorm.io/gorm"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

// Repository handles all recitation cache database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new recitations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the metadata row for (chapterNumber, reciterID), or
// gorm.ErrRecordNotFound if the asset was never recorded.
func (r *Repository) Get(chapterNumber int, reciterID string) (*entities.CachedRecitation, error) {
	var meta entities.CachedRecitation
	err := r.db.Where("chapter_number = ? AND reciter_id = ?", chapterNumber, reciterID).
		First(&meta).Error
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// Upsert records metadata for a completed download. Any prior row for the
// same (chapterNumber, reciterID) key is deleted first so re-downloads
// replace rather than accumulate.
func (r *Repository) Upsert(meta *entities.CachedRecitation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("chapter_number = ? AND reciter_id = ?", meta.ChapterNumber, meta.ReciterID).
			Delete(&entities.CachedRecitation{}).Error
		if err != nil {
			return err
		}
		meta.ID = 0
		return tx.Create(meta).Error
	})
}

// Delete removes the metadata row for (chapterNumber, reciterID).
// No-op if absent.
func (r *Repository) Delete(chapterNumber int, reciterID string) error {
	return r.db.Where("chapter_number = ? AND reciter_id = ?", chapterNumber, reciterID).
		Delete(&entities.CachedRecitation{}).Error
}

// List returns every tracked download.
func (r *Repository) List() ([]entities.CachedRecitation, error) {
	var metas []entities.CachedRecitation
	err := r.db.Order("downloaded_at DESC").Find(&metas).Error
	return metas, err
}

// TotalSize sums the recorded file sizes of all tracked downloads.
func (r *Repository) TotalSize() (int64, error) {
	var total int64
	err := r.db.Model(&entities.CachedRecitation{}).
		Select("COALESCE(SUM(file_size_bytes), 0)").
		Scan(&total).Error
	return total, err
}
