// Package sqlite provides SQLite-backed implementations of the feature ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single database connection serves two roles:
//
//   - FeatureHistoryStore: every entity recorded by the use case or added from the CLI
//   - FeatureRepository: the "sqlite" variant, which yields the most recent entity
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.tmarch/data/features.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
