// Package storage defines the persistence contracts for campaign data.
//
// It provides the engine capability interface (Engine), the typed record
// shapes repositories read and write, and the row-set decoding layer that
// maps engine column values into record fields. Engine implementations
// (currently SQLite) live in subpackages; repositories depend only on the
// interfaces defined here.
//
// # Error Types
//
// The package defines sentinel errors shared across engine implementations:
//   - ErrNotFound: a requested record is missing.
//   - ErrConflict: an insert collided with an existing identifier.
//   - ErrPoolClosed: the connection pool was closed with work queued.
package storage
