package download

import (
	"context"
	"fmt"
	"sync"
)

// Manager hands out one Controller per asset so repeated requests for the
// same chapter/reciter pair share a lifecycle instead of racing each other.
type Manager struct {
	cache      CacheService
	confirm    ConfirmFunc
	lowStorage int64

	mu          sync.Mutex
	controllers map[string]*Controller
}

// NewManager creates a controller manager. confirm and threshold semantics
// match NewController.
func NewManager(cache CacheService, confirm ConfirmFunc, lowStorageThreshold int64) *Manager {
	return &Manager{
		cache:       cache,
		confirm:     confirm,
		lowStorage:  lowStorageThreshold,
		controllers: make(map[string]*Controller),
	}
}

func assetKey(chapterNumber int, reciterID string) string {
	return fmt.Sprintf("%d/%s", chapterNumber, reciterID)
}

// Controller returns the controller for an asset, creating and restoring it
// on first use. A non-empty sourceURL replaces the one a shared controller
// holds, so the next download uses the URL the latest caller supplied.
func (m *Manager) Controller(chapterNumber int, reciterID, sourceURL string) *Controller {
	key := assetKey(chapterNumber, reciterID)

	m.mu.Lock()
	ctrl, ok := m.controllers[key]
	if !ok {
		ctrl = NewController(m.cache, chapterNumber, reciterID, sourceURL, m.confirm, m.lowStorage)
		m.controllers[key] = ctrl
		m.mu.Unlock()
		ctrl.Restore()
		return ctrl
	}
	m.mu.Unlock()
	ctrl.refreshSourceURL(sourceURL)
	return ctrl
}

// Lookup returns an existing controller without creating one.
func (m *Manager) Lookup(chapterNumber int, reciterID string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrl, ok := m.controllers[assetKey(chapterNumber, reciterID)]
	return ctrl, ok
}

// Start begins the asset's download in the background.
func (m *Manager) Start(ctx context.Context, chapterNumber int, reciterID, sourceURL string) *Controller {
	ctrl := m.Controller(chapterNumber, reciterID, sourceURL)
	go func() {
		_ = ctrl.Start(ctx)
	}()
	return ctrl
}
