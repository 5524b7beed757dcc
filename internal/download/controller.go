// Package download mediates the user-facing download/cancel/remove lifecycle
// for a single recitation asset on top of the audio cache service. Each
// asset gets its own Controller; controllers are independent and may run
// concurrently with each other.
package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Maagdy/Yaqeen-sub001/internal/audiocache"
)

// State is the controller's position in the per-asset lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateConfirming  State = "confirming"
	StateDownloading State = "downloading"
	StateDownloaded  State = "downloaded"
)

// DefaultLowStorageThresholdBytes gates downloads behind a user confirmation
// when available space drops below it.
const DefaultLowStorageThresholdBytes = int64(100) * 1024 * 1024

// CacheService is the slice of the audio cache the controller needs.
type CacheService interface {
	Download(ctx context.Context, chapterNumber int, reciterID, sourceURL string, onProgress audiocache.ProgressFunc) error
	IsAvailableOffline(chapterNumber int, reciterID string) (bool, error)
	Remove(chapterNumber int, reciterID string) error
	Stats() (audiocache.StorageStats, error)
}

// ConfirmFunc asks the user whether to proceed despite low storage. It is a
// user-facing suspension point: the controller waits for the answer before
// issuing any network request.
type ConfirmFunc func(available int64) bool

// Controller drives one asset's download lifecycle.
type Controller struct {
	cache         CacheService
	chapterNumber int
	reciterID     string
	confirm       ConfirmFunc
	lowStorage    int64

	mu        sync.Mutex
	sourceURL string
	state     State
	progress  int
	cancel    context.CancelFunc
}

// NewController creates a controller for one (chapter, reciter) asset.
// confirm may be nil, in which case low-storage downloads proceed without
// a gate. A non-positive threshold selects the default.
func NewController(cache CacheService, chapterNumber int, reciterID, sourceURL string, confirm ConfirmFunc, lowStorageThreshold int64) *Controller {
	if lowStorageThreshold <= 0 {
		lowStorageThreshold = DefaultLowStorageThresholdBytes
	}
	return &Controller{
		cache:         cache,
		chapterNumber: chapterNumber,
		reciterID:     reciterID,
		sourceURL:     sourceURL,
		confirm:       confirm,
		lowStorage:    lowStorageThreshold,
		state:         StateIdle,
	}
}

// refreshSourceURL adopts a newer source URL for the asset. Empty values
// are ignored so callers that only know the asset key (status, remove)
// cannot clobber a URL a download supplied.
func (c *Controller) refreshSourceURL(url string) {
	if url == "" {
		return
	}
	c.mu.Lock()
	c.sourceURL = url
	c.mu.Unlock()
}

// Restore queries offline availability and transitions Idle -> Downloaded
// when the asset is already cached. Called once when the asset's UI mounts.
func (c *Controller) Restore() {
	available, err := c.cache.IsAvailableOffline(c.chapterNumber, c.reciterID)
	if err != nil {
		log.Printf("[DOWNLOAD] availability probe failed for chapter %d reciter %s: %v",
			c.chapterNumber, c.reciterID, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if available && c.state == StateIdle {
		c.state = StateDownloaded
		c.progress = 100
	}
}

// Start runs the download lifecycle. It is an idempotent guard: a no-op
// when a download is in flight or already complete. It blocks until the
// transfer finishes one way or another, so callers run it in a goroutine.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.state = StateChecking
	c.mu.Unlock()

	stats, err := c.cache.Stats()
	if err != nil {
		c.reset()
		return fmt.Errorf("query storage stats: %w", err)
	}

	if stats.AvailableBytes < c.lowStorage && c.confirm != nil {
		c.setState(StateConfirming)
		if !c.confirm(stats.AvailableBytes) {
			// User declined; no network request was issued.
			c.reset()
			return nil
		}
	}

	downloadCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.state = StateDownloading
	c.progress = 0
	c.cancel = cancel
	sourceURL := c.sourceURL
	c.mu.Unlock()

	err = c.cache.Download(downloadCtx, c.chapterNumber, c.reciterID, sourceURL, c.setProgress)
	cancel()

	c.mu.Lock()
	c.cancel = nil
	c.mu.Unlock()

	switch {
	case errors.Is(err, audiocache.ErrCancelled):
		// Cancelled and failed leave identical state; only the log differs.
		log.Printf("[DOWNLOAD] cancelled chapter %d reciter %s", c.chapterNumber, c.reciterID)
		c.reset()
		return nil
	case err != nil:
		log.Printf("[DOWNLOAD] failed chapter %d reciter %s: %v", c.chapterNumber, c.reciterID, err)
		c.reset()
		return nil
	}

	c.mu.Lock()
	c.state = StateDownloaded
	c.progress = 100
	c.mu.Unlock()
	return nil
}

// Cancel signals the active download. No effect if nothing is in flight.
func (c *Controller) Cancel() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Remove deletes the downloaded asset and returns to Idle.
func (c *Controller) Remove() error {
	if err := c.cache.Remove(c.chapterNumber, c.reciterID); err != nil {
		return fmt.Errorf("remove download: %w", err)
	}
	c.reset()
	return nil
}

// Status returns the current state and 0-100 progress.
func (c *Controller) Status() (State, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.progress
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) setProgress(percent int) {
	c.mu.Lock()
	c.progress = percent
	c.mu.Unlock()
}

func (c *Controller) reset() {
	c.mu.Lock()
	c.state = StateIdle
	c.progress = 0
	c.mu.Unlock()
}
