package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/Maagdy/Yaqeen-sub001/internal/audiocache"
	"github.com/Maagdy/Yaqeen-sub001/internal/connectivity"
	"github.com/Maagdy/Yaqeen-sub001/internal/database/locations"
	"github.com/Maagdy/Yaqeen-sub001/internal/database/recitations"
	syncqueuedb "github.com/Maagdy/Yaqeen-sub001/internal/database/syncqueue"
	"github.com/Maagdy/Yaqeen-sub001/internal/diagnostics"
	"github.com/Maagdy/Yaqeen-sub001/internal/download"
	"github.com/Maagdy/Yaqeen-sub001/internal/http"
	"github.com/Maagdy/Yaqeen-sub001/internal/prayertimes"
	"github.com/Maagdy/Yaqeen-sub001/internal/remote"
	"github.com/Maagdy/Yaqeen-sub001/internal/scheduler"
	"github.com/Maagdy/Yaqeen-sub001/internal/syncqueue"
	"github.com/Maagdy/Yaqeen-sub001/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Sync queue store implementations
var _ syncqueue.Store = (*syncqueuedb.Repository)(nil)

// Recitation metadata store implementations
var _ audiocache.MetadataStore = (*recitations.Repository)(nil)

// Location cache implementations
var _ prayertimes.Cache = (*locations.Repository)(nil)
var _ tasks.LocationPruner = (*locations.Repository)(nil)

// =============================================================================
// Sync Queue
// =============================================================================

// WakeRegistrar implementations
var _ syncqueue.WakeRegistrar = (*tasks.WakeRegistrar)(nil)

// DeadLetterSink implementations
var _ syncqueue.DeadLetterSink = (*diagnostics.DeadLetter)(nil)

// Queue/drain implementations
var _ remote.Queue = (*syncqueue.Service)(nil)
var _ tasks.QueueDrainer = (*syncqueue.Runner)(nil)
var _ scheduler.Drainer = (*syncqueue.Runner)(nil)

// =============================================================================
// Content Cache & Downloads
// =============================================================================

// BlobStore implementations
var _ audiocache.BlobStore = (*audiocache.FileBlobStore)(nil)

// CacheService implementations
var _ download.CacheService = (*audiocache.Service)(nil)
var _ scheduler.Sweeper = (*audiocache.Service)(nil)

// =============================================================================
// Connectivity
// =============================================================================

// Prober implementations
var _ connectivity.Prober = (*connectivity.HTTPProber)(nil)

// OnlineChecker implementations
var _ remote.OnlineChecker = (*connectivity.Bridge)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

// SyncStore implementations
var _ http.SyncStore = (*syncqueue.Service)(nil)

// MutationApplier implementations
var _ http.MutationApplier = (*remote.Fallback)(nil)

// CacheStats implementations
var _ http.CacheStats = (*audiocache.Service)(nil)

// TimesProvider implementations
var _ http.TimesProvider = (*prayertimes.Service)(nil)
