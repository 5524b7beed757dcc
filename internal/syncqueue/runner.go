package syncqueue

import (
	"context"
	"log"
)

// Runner binds a Service to its executor so callers that only know a user
// ID (background tasks, the scheduler) can trigger drains without carrying
// the remote client around.
type Runner struct {
	service  *Service
	executor Executor
}

// NewRunner creates a runner draining through executor.
func NewRunner(service *Service, executor Executor) *Runner {
	return &Runner{
		service:  service,
		executor: executor,
	}
}

// DrainUser replays the queued operations of one user.
func (r *Runner) DrainUser(ctx context.Context, userID string) error {
	return r.service.Drain(ctx, userID, r.executor)
}

// DrainPending drains every user with at least one queued operation. A
// per-user failure is logged and the remaining users still get their pass.
func (r *Runner) DrainPending(ctx context.Context) {
	users, err := r.service.store.PendingUsers()
	if err != nil {
		log.Printf("[QUEUE] listing users with pending operations failed: %v", err)
		return
	}
	for _, userID := range users {
		if err := r.service.Drain(ctx, userID, r.executor); err != nil {
			log.Printf("[QUEUE] scheduled drain failed for user %s: %v", userID, err)
		}
	}
}
