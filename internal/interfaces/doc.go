// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// The application uses several categories of interfaces:
//
// ## Data Access Interfaces
//
//   - syncqueue.Store: Durable queue persistence (internal/syncqueue/service.go)
//   - audiocache.MetadataStore: Recitation cache bookkeeping (internal/audiocache/service.go)
//   - audiocache.BlobStore: Audio payload storage (internal/audiocache/blobstore.go)
//   - prayertimes.Cache: Location-scoped cache reads/writes (internal/prayertimes/service.go)
//
// ## Sync Pipeline Interfaces
//
//   - syncqueue.WakeRegistrar: Best-effort background wake registration (internal/syncqueue/service.go)
//   - syncqueue.DeadLetterSink: Diagnostics for discarded operations (internal/syncqueue/service.go)
//   - remote.Queue / remote.OnlineChecker: Fallback decorator collaborators (internal/remote/fallback.go)
//   - tasks.QueueDrainer / scheduler.Drainer: Drain triggers (internal/tasks, internal/scheduler)
//
// ## Download Interfaces
//
//   - download.CacheService: Cache operations the state machine drives (internal/download/controller.go)
//   - download.ConfirmFunc: Low-storage confirmation gate (internal/download/controller.go)
//
// ## Connectivity Interfaces
//
//   - connectivity.Prober: Reachability verification (internal/connectivity/bridge.go)
//
// # Adding a New Operation Type
//
// To queue and replay a new kind of user mutation:
//
//  1. Add the type constant to internal/entities/queue.go and extend
//     KnownOperationTypes.
//
//  2. Define its payload struct and constructor in internal/remote/payloads.go:
//
//     type BookmarkPayload struct {
//         ChapterNumber int `json:"chapter_number"`
//         Verse         int `json:"verse"`
//     }
//
//  3. Map it to a method and path in operationRoutes (internal/remote/client.go).
//     The executor must stay idempotent: replays can deliver the same logical
//     operation more than once.
//
//  4. Accept it in buildOperation (internal/http/sync.go).
//
// # Adding a New Blob Store
//
// To store audio payloads somewhere other than the local filesystem:
//
//  1. Implement BlobStore in internal/audiocache/
//
//     type S3BlobStore struct {
//         bucket string
//     }
//
//     func (s *S3BlobStore) Writer(key string) (audiocache.BlobWriter, error)
//     func (s *S3BlobStore) Has(key string) bool
//
//     var _ audiocache.BlobStore = (*S3BlobStore)(nil)
//
//  2. Writer must stage the payload and only publish it on Commit; a partial
//     write followed by Abort must leave nothing visible.
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., bookmarks):
//
//  1. Create sub-package: internal/database/bookmarks/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ BookmarkStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
