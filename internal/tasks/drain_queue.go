package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// QueueDrainer replays all pending operations for one user.
type QueueDrainer interface {
	DrainUser(ctx context.Context, userID string) error
}

// DrainQueueTask requests a drain of one user's sync queue. Enqueued as the
// best-effort background wake whenever an operation is queued; the online
// event remains the fallback trigger, so MaxAttempts stays low.
type DrainQueueTask struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// Config returns the queue configuration for drain tasks.
func (t DrainQueueTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "drain_queue",
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// DrainQueueProcessor creates a processor function for DrainQueueTask.
func DrainQueueProcessor(drainer QueueDrainer) backlite.QueueProcessor[DrainQueueTask] {
	return func(ctx context.Context, task DrainQueueTask) error {
		if drainer == nil {
			return fmt.Errorf("queue drainer not configured")
		}

		log.Printf("[TASK] Drain wake for user %s (reason: %s)", task.UserID, task.Reason)
		if err := drainer.DrainUser(ctx, task.UserID); err != nil {
			return fmt.Errorf("drain queue for user %s: %w", task.UserID, err)
		}
		return nil
	}
}

// NewDrainQueueQueue creates a backlite queue for drain tasks.
func NewDrainQueueQueue(drainer QueueDrainer) backlite.Queue {
	return backlite.NewQueue(DrainQueueProcessor(drainer))
}

// WakeRegistrar adapts the task client to the sync queue's wake registration
// hook: each enqueue registers a durable drain task, best-effort.
type WakeRegistrar struct {
	client *Client
}

// NewWakeRegistrar creates the registrar around the task client.
func NewWakeRegistrar(client *Client) *WakeRegistrar {
	return &WakeRegistrar{client: client}
}

// RequestWake registers a background drain for userID.
func (r *WakeRegistrar) RequestWake(userID string) error {
	if r.client == nil {
		return fmt.Errorf("task client not configured")
	}
	_, err := r.client.Add(DrainQueueTask{UserID: userID, Reason: "enqueue"}).Save()
	return err
}
