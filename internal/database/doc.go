// Package database owns the SQLite-backed persistent store. The connection
// and schema migration live here; per-table operations live in the
// subpackages (syncqueue, recitations, locations), one repository each.
//
// The store must survive process restarts: queued operations and cached
// asset metadata are the durability boundary of the offline-first layer.
package database
