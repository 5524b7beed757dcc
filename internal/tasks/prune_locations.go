package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// LocationPruner deletes location cache entries older than a cutoff date.
type LocationPruner interface {
	PruneBefore(cutoff string) (int64, error)
}

// PruneLocationCacheTask removes stale location-scoped cache entries.
// Prayer times for past dates are never read again.
type PruneLocationCacheTask struct {
	KeepDays int `json:"keep_days"`
}

// Config returns the queue configuration for pruning tasks.
func (t PruneLocationCacheTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_location_cache",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PruneLocationCacheProcessor creates a processor function for
// PruneLocationCacheTask.
func PruneLocationCacheProcessor(pruner LocationPruner) backlite.QueueProcessor[PruneLocationCacheTask] {
	return func(ctx context.Context, task PruneLocationCacheTask) error {
		if pruner == nil {
			return fmt.Errorf("location pruner not configured")
		}

		keep := task.KeepDays
		if keep <= 0 {
			keep = 1
		}
		cutoff := time.Now().AddDate(0, 0, -keep).Format("2006-01-02")

		pruned, err := pruner.PruneBefore(cutoff)
		if err != nil {
			return fmt.Errorf("prune location cache: %w", err)
		}

		log.Printf("[TASK] Pruned %d stale location cache entries", pruned)
		return nil
	}
}

// NewPruneLocationCacheQueue creates a backlite queue for pruning tasks.
func NewPruneLocationCacheQueue(pruner LocationPruner) backlite.Queue {
	return backlite.NewQueue(PruneLocationCacheProcessor(pruner))
}
