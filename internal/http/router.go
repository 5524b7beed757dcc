package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Maagdy/Yaqeen-sub001/internal/connectivity"
	"github.com/Maagdy/Yaqeen-sub001/internal/database"
	"github.com/Maagdy/Yaqeen-sub001/internal/download"
)

// RouterConfig carries all dependencies of the HTTP surface, improving
// testability and reducing parameter count.
type RouterConfig struct {
	Database        *database.Database
	SyncStore       SyncStore
	MutationApplier MutationApplier
	DrainTrigger    DrainTrigger
	DownloadManager *download.Manager
	Cache           CacheStats
	Bridge          *connectivity.Bridge
	TimesProvider   TimesProvider
	Version         string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)

	api := router.Group("/api")

	if cfg.SyncStore != nil && cfg.MutationApplier != nil {
		syncController := NewSyncController(cfg.SyncStore, cfg.MutationApplier, cfg.DrainTrigger)
		api.POST("/mutations", syncController.Apply)
		api.GET("/sync/pending", syncController.Pending)
		api.POST("/sync/drain", syncController.Drain)
	}

	if cfg.DownloadManager != nil && cfg.Cache != nil {
		downloadsController := NewDownloadsController(cfg.DownloadManager, cfg.Cache)
		api.GET("/downloads/stats", downloadsController.StorageStats)
		api.POST("/downloads/:chapter", downloadsController.Start)
		api.GET("/downloads/:chapter", downloadsController.Status)
		api.POST("/downloads/:chapter/cancel", downloadsController.Cancel)
		api.DELETE("/downloads/:chapter", downloadsController.Remove)
	}

	if cfg.Bridge != nil {
		connectivityController := NewConnectivityController(cfg.Bridge)
		api.GET("/connectivity", connectivityController.Status)
		api.POST("/connectivity/native", connectivityController.Native)
		api.POST("/connectivity/wake", connectivityController.Wake)

		bridgeSocket := NewBridgeSocketController(cfg.Bridge)
		router.GET("/ws/bridge", bridgeSocket.Serve)
	}

	if cfg.TimesProvider != nil {
		prayerTimesController := NewPrayerTimesController(cfg.TimesProvider)
		api.GET("/prayer-times", prayerTimesController.Today)
	}

	return router
}
