package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Queue
		Cache
		Connectivity
		Backend
		PrayerTimes
		Tasks
		Schedules
		Diagnostics
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Queue struct {
		MaxRetries int // replay attempts before an operation is discarded
	}
	Cache struct {
		Dir                      string
		LowStorageThresholdBytes int64 // below this, downloads need user confirmation
		AllowLowStorage          bool  // proceed without confirmation when space is low
	}
	Connectivity struct {
		ProbeURL string
	}
	Backend struct {
		BaseURL string
		Token   string
	}
	PrayerTimes struct {
		BaseURL string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Schedules struct {
		Drain string // cron format: "*/15 * * * *" = every 15 minutes
		Sweep string // cron format: "0 * * * *" = hourly
	}
	Diagnostics struct {
		DeadLetterDir string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8321)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("queue_max_retries", 5)
	v.SetDefault("cache_dir", DefaultCacheDir)
	v.SetDefault("low_storage_threshold_bytes", int64(100)*1024*1024)
	v.SetDefault("cache_allow_low_storage", false)
	v.SetDefault("connectivity_probe_url", "https://www.gstatic.com/generate_204")
	v.SetDefault("backend_base_url", "https://api.yaqeen.app")
	v.SetDefault("backend_token", "")
	v.SetDefault("prayer_times_base_url", "https://api.aladhan.com")
	v.SetDefault("dead_letter_dir", "./deadletter")

	// Task worker defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Best-effort wakeup defaults
	v.SetDefault("drain_schedule", "*/15 * * * *")
	v.SetDefault("sweep_schedule", "0 * * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Queue: Queue{
			MaxRetries: v.GetInt("QUEUE_MAX_RETRIES"),
		},
		Cache: Cache{
			Dir:                      v.GetString("CACHE_DIR"),
			LowStorageThresholdBytes: v.GetInt64("LOW_STORAGE_THRESHOLD_BYTES"),
			AllowLowStorage:          v.GetBool("CACHE_ALLOW_LOW_STORAGE"),
		},
		Connectivity: Connectivity{
			ProbeURL: v.GetString("CONNECTIVITY_PROBE_URL"),
		},
		Backend: Backend{
			BaseURL: v.GetString("BACKEND_BASE_URL"),
			Token:   v.GetString("BACKEND_TOKEN"),
		},
		PrayerTimes: PrayerTimes{
			BaseURL: v.GetString("PRAYER_TIMES_BASE_URL"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Schedules: Schedules{
			Drain: v.GetString("DRAIN_SCHEDULE"),
			Sweep: v.GetString("SWEEP_SCHEDULE"),
		},
		Diagnostics: Diagnostics{
			DeadLetterDir: v.GetString("DEAD_LETTER_DIR"),
		},
	}
}
