package config

// Default paths for local storage
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./yaqeen.db"

	// DefaultCacheDir is the default directory for downloaded audio blobs
	DefaultCacheDir = "./audio-cache"
)
