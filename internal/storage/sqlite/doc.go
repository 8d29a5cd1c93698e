// Package sqlite implements the storage engine contract over a single-file
// SQLite database.
//
// Why this package exists:
//   - It owns the connection pool: one writer slot plus a bounded set of
//     readers over a WAL-mode file, so reads proceed while a write commits.
//   - It owns migration and schema-compatibility behavior for campaign file
//     durability, gating repository traffic until the chain is applied.
//   - It translates engine-level failures (busy files, cancelled statements,
//     constraint violations) into the domain error taxonomy in one place.
//
// Only this package touches database/sql; repositories speak the
// storage.Engine interface.
package sqlite
