// Package syncqueue implements the write-ahead queue that makes user
// mutations reliable across connectivity loss. Operations that could not be
// confirmed against the remote system are persisted and replayed in order
// once connectivity returns.
package syncqueue

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

// DefaultMaxRetries is the retry ceiling applied when the service is
// constructed with a non-positive value.
const DefaultMaxRetries = 5

// Executor replays one queued operation against the remote system. It must
// be idempotent under at-least-once delivery: a process crash mid-drain
// leaves the operation queued with its pre-attempt retry count, so the same
// logical operation can reach the remote system more than once.
type Executor func(ctx context.Context, op entities.QueuedOperation) error

// Store is the persistence the queue service needs.
type Store interface {
	Insert(op *entities.QueuedOperation) error
	ListPending(userID string) ([]entities.QueuedOperation, error)
	PendingCount(userID string) (int64, error)
	PendingUsers() ([]string, error)
	IncrementRetries(id uint) error
	Delete(id uint) error
}

// WakeRegistrar registers a best-effort background wake request with the
// host environment so a queued operation gets a drain attempt even if no
// online event fires. Registration failure is silent and non-fatal.
type WakeRegistrar interface {
	RequestWake(userID string) error
}

// DeadLetterSink receives operations discarded at the retry ceiling.
type DeadLetterSink interface {
	RecordDiscarded(op entities.QueuedOperation, lastErr error)
}

// Service is the sync queue service. Drain passes are serialized by an
// internal mutex: overlapping triggers (online event, manual wake,
// app-start) contend on the lock instead of replaying items concurrently.
type Service struct {
	store      Store
	wake       WakeRegistrar
	deadLetter DeadLetterSink
	maxRetries int

	drainMu sync.Mutex
}

// NewService creates a sync queue service. wake and deadLetter may be nil.
func NewService(store Store, wake WakeRegistrar, deadLetter DeadLetterSink, maxRetries int) *Service {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Service{
		store:      store,
		wake:       wake,
		deadLetter: deadLetter,
		maxRetries: maxRetries,
	}
}

// Enqueue appends an operation with retries reset to zero and registers a
// best-effort background wake. A failed wake registration is logged and
// swallowed; the online-event path is the fallback trigger.
func (s *Service) Enqueue(op *entities.QueuedOperation) error {
	if !op.OperationType.IsKnown() {
		return fmt.Errorf("unknown operation type %q", op.OperationType)
	}
	if err := s.store.Insert(op); err != nil {
		return fmt.Errorf("enqueue operation: %w", err)
	}

	if s.wake != nil {
		if err := s.wake.RequestWake(op.UserID); err != nil {
			log.Printf("[QUEUE] background wake registration failed (will rely on online event): %v", err)
		}
	}

	return nil
}

// Drain replays all queued operations for userID in CreatedAt order,
// sequentially, never in parallel, because later operations may depend on
// earlier ones (add-then-remove of the same favorite).
//
// Per-item failures are contained: a failed item gets its retry count
// incremented (or is discarded at the ceiling) and the pass continues with
// the next item. Drain only returns an error when the store itself is
// unreachable. Running Drain with an empty backlog is a no-op.
func (s *Service) Drain(ctx context.Context, userID string, executor Executor) error {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()

	ops, err := s.store.ListPending(userID)
	if err != nil {
		return fmt.Errorf("load pending operations: %w", err)
	}
	if len(ops) == 0 {
		return nil
	}

	log.Printf("[QUEUE] draining %d operation(s) for user %s", len(ops), userID)

	var replayed, retried, discarded int
	for _, op := range ops {
		outcome := OutcomeSuccess
		attemptErr := executor(ctx, op)
		if attemptErr != nil {
			outcome = OutcomeFailure
		}

		switch NextState(op.Retries, outcome, s.maxRetries) {
		case DecisionDone:
			// Unconditional idempotent delete is the correctness boundary
			// for overlapping drain triggers.
			if err := s.store.Delete(op.ID); err != nil {
				return fmt.Errorf("delete replayed operation %d: %w", op.ID, err)
			}
			replayed++

		case DecisionRetry:
			if err := s.store.IncrementRetries(op.ID); err != nil {
				return fmt.Errorf("increment retries for operation %d: %w", op.ID, err)
			}
			log.Printf("[QUEUE] operation %d (%s) failed, attempt %d/%d: %v",
				op.ID, op.OperationType, op.Retries+1, s.maxRetries, attemptErr)
			retried++

		case DecisionDiscard:
			if err := s.store.Delete(op.ID); err != nil {
				return fmt.Errorf("discard operation %d: %w", op.ID, err)
			}
			log.Printf("[QUEUE] operation %d (%s) discarded after %d attempts: %v",
				op.ID, op.OperationType, s.maxRetries, attemptErr)
			if s.deadLetter != nil {
				// op.Retries still holds the pre-attempt count; the
				// archived record reports the full exhausted budget.
				op.Retries = s.maxRetries
				s.deadLetter.RecordDiscarded(op, attemptErr)
			}
			discarded++
		}
	}

	log.Printf("[QUEUE] drain finished for user %s: %d replayed, %d retried, %d discarded",
		userID, replayed, retried, discarded)
	return nil
}

// PendingCount returns the number of queued operations for a user.
// Read-only, no side effects.
func (s *Service) PendingCount(userID string) (int64, error) {
	return s.store.PendingCount(userID)
}

// PendingItems returns the queued operations for a user, oldest first.
// Read-only, no side effects.
func (s *Service) PendingItems(userID string) ([]entities.QueuedOperation, error) {
	return s.store.ListPending(userID)
}
