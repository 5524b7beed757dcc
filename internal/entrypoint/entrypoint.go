package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Maagdy/Yaqeen-sub001/internal/audiocache"
	"github.com/Maagdy/Yaqeen-sub001/internal/config"
	"github.com/Maagdy/Yaqeen-sub001/internal/connectivity"
	"github.com/Maagdy/Yaqeen-sub001/internal/database"
	"github.com/Maagdy/Yaqeen-sub001/internal/database/locations"
	"github.com/Maagdy/Yaqeen-sub001/internal/database/recitations"
	syncqueuedb "github.com/Maagdy/Yaqeen-sub001/internal/database/syncqueue"
	"github.com/Maagdy/Yaqeen-sub001/internal/diagnostics"
	"github.com/Maagdy/Yaqeen-sub001/internal/download"
	http_controllers "github.com/Maagdy/Yaqeen-sub001/internal/http"
	"github.com/Maagdy/Yaqeen-sub001/internal/prayertimes"
	"github.com/Maagdy/Yaqeen-sub001/internal/remote"
	"github.com/Maagdy/Yaqeen-sub001/internal/scheduler"
	"github.com/Maagdy/Yaqeen-sub001/internal/syncqueue"
	"github.com/Maagdy/Yaqeen-sub001/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown. kill (no param) sends SIGTERM, kill -2 is SIGINT;
	// SIGKILL can't be caught so there is no point registering it.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the scheduler and task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Yaqeen durability service v%s", version)

	if cfg.Backend.Token == "" {
		log.Printf("WARNING: Backend token is not set. Queued operations will be rejected as unauthorized during replay. Set 'BACKEND_TOKEN' environment variable.")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	queueRepo := syncqueuedb.NewRepository(db.DB)
	recitationRepo := recitations.NewRepository(db.DB)
	locationRepo := locations.NewRepository(db.DB)

	// Dead letter sink for operations discarded at the retry ceiling
	deadLetter := diagnostics.NewDeadLetter(cfg.Diagnostics.DeadLetterDir)

	remoteClient := remote.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token)

	// Initialize task queue if enabled. The wake registrar needs the client,
	// so this comes before the queue service.
	var taskClient *tasks.Client
	var wakeRegistrar syncqueue.WakeRegistrar
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		wakeRegistrar = tasks.NewWakeRegistrar(taskClient)
	}

	queueService := syncqueue.NewService(queueRepo, wakeRegistrar, deadLetter, cfg.Queue.MaxRetries)
	drainRunner := syncqueue.NewRunner(queueService, remoteClient.Execute)

	if taskClient != nil {
		// Register task queues
		taskClient.Register(
			tasks.NewDrainQueueQueue(drainRunner),
			tasks.NewPruneLocationCacheQueue(locationRepo),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Audio cache: metadata in SQLite, payloads on the filesystem
	blobStore, err := audiocache.NewFileBlobStore(cfg.Cache.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize audio cache at %s: %v", cfg.Cache.Dir, err)
	}
	cacheService := audiocache.NewService(recitationRepo, blobStore, nil)
	log.Printf("Audio cache initialized at %s", cfg.Cache.Dir)

	// Low-storage gate: without a user to ask, downloads below the threshold
	// are declined unless the operator opted in.
	var confirmLowStorage download.ConfirmFunc
	if !cfg.Cache.AllowLowStorage {
		confirmLowStorage = func(available int64) bool {
			log.Printf("Download declined: %d bytes available is below the low-storage threshold. Set CACHE_ALLOW_LOW_STORAGE=true to proceed anyway.", available)
			return false
		}
	}
	downloadManager := download.NewManager(cacheService, confirmLowStorage, cfg.Cache.LowStorageThresholdBytes)

	// Connectivity bridge: an online transition drains every pending queue
	bridge := connectivity.NewBridge(
		connectivity.NewHTTPProber(cfg.Connectivity.ProbeURL),
		func(reason string) {
			log.Printf("Connectivity wake (%s): draining pending queues", reason)
			go drainRunner.DrainPending(context.Background())
		},
	)

	mutationFallback := remote.NewFallback(remoteClient, queueService, bridge)

	timesService := prayertimes.NewService(cfg.PrayerTimes.BaseURL, locationRepo)

	// Best-effort periodic wake-ups
	wakeups := scheduler.NewWakeupScheduler(drainRunner, cacheService, cfg.Schedules.Drain, cfg.Schedules.Sweep)
	if err := wakeups.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start wakeup scheduler: %v", err)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:        db,
		SyncStore:       queueService,
		MutationApplier: mutationFallback,
		DrainTrigger: func(ctx context.Context, userID string) {
			if err := drainRunner.DrainUser(ctx, userID); err != nil {
				log.Printf("Manual drain failed for user %s: %v", userID, err)
			}
		},
		DownloadManager: downloadManager,
		Cache:           cacheService,
		Bridge:          bridge,
		TimesProvider:   timesService,
		Version:         version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		wakeups.Stop()
		if taskCtxCancel != nil {
			taskCtxCancel()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
	})
}
