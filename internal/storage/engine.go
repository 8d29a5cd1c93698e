package storage

import "context"

// Result reports the outcome of a mutating statement.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Querier runs SQL statements with bound parameters. Implementations are
// scoped to a single connection and, inside Write, a single transaction.
type Querier interface {
	// Exec runs a mutating statement and reports affected rows.
	Exec(ctx context.Context, stmt string, args ...any) (Result, error)
	// Query runs a row-returning statement and materializes the rows.
	Query(ctx context.Context, stmt string, args ...any) (*RowSet, error)
}

// Engine is the capability contract a storage backend implements.
//
// Repositories depend only on this interface; the concrete engine (SQLite
// today) is chosen at open time. All methods suspend on the context rather
// than blocking the caller's event loop, and every error carries a domain
// code from the platform errors package.
type Engine interface {
	// Read runs fn against a read snapshot. Reads may run concurrently
	// with each other and with at most one writer; they never observe a
	// write mid-transaction.
	Read(ctx context.Context, fn func(q Querier) error) error

	// Write runs fn inside the single writer slot, wrapped in one
	// transaction. The transaction commits when fn returns nil and rolls
	// back otherwise, including on cancellation and timeout. Writes are
	// serialized in submission order.
	Write(ctx context.Context, fn func(q Querier) error) error

	// Version reports the schema version stored in the engine's native
	// metadata slot. It is readable before the full schema is trusted.
	Version(ctx context.Context) (int, error)

	// Close drains in-flight operations and releases the underlying file.
	// Queued acquisitions fail with ErrPoolClosed.
	Close(ctx context.Context) error
}
