// Package repositories implements SQLite persistence for run history.
//
// A run is one change batch applied to a loaded catalog. The run row and the final catalog snapshot are
// stored separately so listing runs never touches snapshot tables.
//
// Key Implementations:
//   - [RunRepository] : run rows with atomic sequence generation
//   - [SnapshotRepository] : users, songs, playlists and playlist songs captured at the end of a run
//
// Sequence numbers provide stable, human-readable ordering (run #3) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table counters in dedicated sequence tables.
package repositories
