// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Repositories take a [DBTX], so the same code runs against the pool or inside a transaction.
// Catalog rows are hard-deleted so that a removed fingerprint can be registered again.
//
// Key Implementations:
//   - [SongRepository] : songs, unique on (title, artist)
//   - [ChartRepository] : charts, unique on fingerprint
//   - [PlayerRepository] : score submitters keyed by token subject
//   - [ScoreRepository] : plays attached to a chart
//   - [PartialScoreRepository] : plays keyed by a bare fingerprint
//
// [Store] bundles them behind explicit catalog operations, and [Database.WithTx] runs a Store inside a transaction.
// Constraint failures reported by go-sqlite3 are translated into the shared error taxonomy:
// a duplicate fingerprint becomes [shared.ErrDuplicateFingerprint], other unique violations [shared.ErrConflict].
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
