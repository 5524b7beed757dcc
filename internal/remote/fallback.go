package remote

import (
	"context"
	"log"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

// Queue is the slice of the sync queue the fallback needs.
type Queue interface {
	Enqueue(op *entities.QueuedOperation) error
}

// OnlineChecker reports the verified connectivity state.
type OnlineChecker interface {
	Online() bool
}

// Fallback wraps any remote mutation with the optimistic
// call-then-queue pattern: attempt the mutation inline when online, and
// persist it to the sync queue when the device is offline or the inline
// attempt fails. The queue core stays unaware of this wrapper.
type Fallback struct {
	client *Client
	queue  Queue
	online OnlineChecker
}

// NewFallback creates the optimistic mutation wrapper.
func NewFallback(client *Client, queue Queue, online OnlineChecker) *Fallback {
	return &Fallback{client: client, queue: queue, online: online}
}

// Apply confirms op remotely when possible, otherwise enqueues it. The
// returned queued flag tells the caller whether the mutation is pending.
func (f *Fallback) Apply(ctx context.Context, op *entities.QueuedOperation) (queued bool, err error) {
	if f.online.Online() {
		if err := f.client.Execute(ctx, *op); err == nil {
			return false, nil
		} else {
			log.Printf("[REMOTE] inline %s failed, queueing for replay: %v", op.OperationType, err)
		}
	}

	if err := f.queue.Enqueue(op); err != nil {
		return false, err
	}
	return true, nil
}
