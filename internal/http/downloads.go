package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Maagdy/Yaqeen-sub001/internal/audiocache"
	"github.com/Maagdy/Yaqeen-sub001/internal/download"
)

// CacheStats reports storage usage for the downloads screen.
type CacheStats interface {
	Stats() (audiocache.StorageStats, error)
	IsAvailableOffline(chapterNumber int, reciterID string) (bool, error)
}

type DownloadsController struct {
	manager *download.Manager
	cache   CacheStats
}

func NewDownloadsController(manager *download.Manager, cache CacheStats) *DownloadsController {
	return &DownloadsController{manager: manager, cache: cache}
}

// StartRequest names the recitation asset to fetch.
type StartRequest struct {
	ReciterID string `json:"reciter_id" binding:"required"`
	SourceURL string `json:"source_url" binding:"required"`
}

// Start begins downloading one chapter's recitation in the background.
// POST /api/downloads/:chapter
func (dc *DownloadsController) Start(c *gin.Context) {
	chapter, ok := parseChapterParam(c)
	if !ok {
		return
	}

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid download request: "+err.Error())
		return
	}

	// The download outlives the request; cancellation goes through the
	// controller, not the request context.
	ctrl := dc.manager.Start(context.Background(), chapter, req.ReciterID, req.SourceURL)
	state, progress := ctrl.Status()
	c.JSON(http.StatusAccepted, gin.H{"state": state, "progress": progress})
}

// Status reports the asset's lifecycle state and progress.
// GET /api/downloads/:chapter?reciter_id=...
func (dc *DownloadsController) Status(c *gin.Context) {
	chapter, ok := parseChapterParam(c)
	if !ok {
		return
	}
	reciterID := c.Query("reciter_id")
	if reciterID == "" {
		respondBadRequest(c, "missing reciter_id")
		return
	}

	ctrl, found := dc.manager.Lookup(chapter, reciterID)
	if !found {
		// No controller yet; answer from the cache directly.
		available, err := dc.cache.IsAvailableOffline(chapter, reciterID)
		if err != nil {
			respondInternalError(c, err, "availability check")
			return
		}
		state := download.StateIdle
		progress := 0
		if available {
			state = download.StateDownloaded
			progress = 100
		}
		c.JSON(http.StatusOK, gin.H{"state": state, "progress": progress})
		return
	}

	state, progress := ctrl.Status()
	c.JSON(http.StatusOK, gin.H{"state": state, "progress": progress})
}

// Cancel signals the in-flight download. No effect if nothing is in flight.
// POST /api/downloads/:chapter/cancel?reciter_id=...
func (dc *DownloadsController) Cancel(c *gin.Context) {
	chapter, ok := parseChapterParam(c)
	if !ok {
		return
	}
	reciterID := c.Query("reciter_id")
	if reciterID == "" {
		respondBadRequest(c, "missing reciter_id")
		return
	}

	if ctrl, found := dc.manager.Lookup(chapter, reciterID); found {
		ctrl.Cancel()
	}
	respondSuccess(c, "cancel requested")
}

// Remove deletes the downloaded asset.
// DELETE /api/downloads/:chapter?reciter_id=...
func (dc *DownloadsController) Remove(c *gin.Context) {
	chapter, ok := parseChapterParam(c)
	if !ok {
		return
	}
	reciterID := c.Query("reciter_id")
	if reciterID == "" {
		respondBadRequest(c, "missing reciter_id")
		return
	}

	ctrl := dc.manager.Controller(chapter, reciterID, "")
	if err := ctrl.Remove(); err != nil {
		respondInternalError(c, err, "remove download")
		return
	}
	respondSuccess(c, "download removed")
}

// StorageStats reports bytes used by downloads and available space.
// GET /api/downloads/stats
func (dc *DownloadsController) StorageStats(c *gin.Context) {
	stats, err := dc.cache.Stats()
	if err != nil {
		respondInternalError(c, err, "storage stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
