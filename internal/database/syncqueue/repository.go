// Package syncqueue provides database operations for the durable operation queue.
//
// This package implements the Store interface used by the sync queue service.
//
// # Interface Implementation
//
//	var _ syncqueue.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := syncqueue.NewRepository(db)
//	ops, err := repo.ListPending(userID)
package syncqueue

import (
	"time"

	"gorm.io/gorm"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

// Repository handles all sync queue database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sync queue repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends a queued operation. The store assigns the ID; retries start
// at zero and CreatedAt defaults to now when unset.
func (r *Repository) Insert(op *entities.QueuedOperation) error {
	op.Retries = 0
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now()
	}
	return r.db.Create(op).Error
}

// ListPending returns all queued operations for a user, oldest first.
// CreatedAt ordering preserves the causal order of user actions.
func (r *Repository) ListPending(userID string) ([]entities.QueuedOperation, error) {
	var ops []entities.QueuedOperation
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&ops).Error
	return ops, err
}

// PendingCount returns the number of queued operations for a user.
func (r *Repository) PendingCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.QueuedOperation{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// PendingUsers returns the distinct user IDs with at least one queued
// operation.
func (r *Repository) PendingUsers() ([]string, error) {
	var users []string
	err := r.db.Model(&entities.QueuedOperation{}).
		Distinct("user_id").
		Pluck("user_id", &users).Error
	return users, err
}

// IncrementRetries persists an incremented retry count for one operation.
func (r *Repository) IncrementRetries(id uint) error {
	return r.db.Model(&entities.QueuedOperation{}).
		Where("id = ?", id).
		Update("retries", gorm.Expr("retries + 1")).Error
}

// Delete removes an operation by ID. Deleting an already-deleted ID is a
// no-op, which is what makes overlapping drains race-safe: delete-after-
// success is unconditional and idempotent.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.QueuedOperation{}, id).Error
}
