package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vbamtools/campaignstore/internal/storage"
	"github.com/vbamtools/campaignstore/internal/storage/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Options configures an engine instance. The zero value selects the
// production registry, four readers, and the shared statement timeout.
type Options struct {
	// Readers bounds how many read handles may be checked out at once.
	Readers int
	// StatementTimeout caps each statement when the caller's context has
	// no tighter deadline.
	StatementTimeout time.Duration
	// BusyTimeout is handed to the engine's busy handler.
	BusyTimeout time.Duration
	// Registry overrides the migration chain, used by tests.
	Registry *schema.Registry
}

// Engine is the SQLite implementation of storage.Engine for one campaign
// database file.
type Engine struct {
	pool    *pool
	runner  *migrationRunner
	tracer  trace.Tracer
	timeout time.Duration
}

var _ storage.Engine = (*Engine)(nil)

// Open opens the campaign file at path, applies pending migrations, and
// admits repository traffic. A migration failure or forward-incompatible
// file closes the pool and fails open: the application must not proceed.
func Open(ctx context.Context, path string, opts Options) (*Engine, error) {
	registry := opts.Registry
	if registry == nil {
		registry = schema.Campaign
	}

	p, err := openPool(path, opts.Readers, opts.BusyTimeout)
	if err != nil {
		return nil, err
	}

	runner := newMigrationRunner(registry)
	if err := runner.run(ctx, p.writeDB); err != nil {
		_ = p.close(ctx)
		return nil, err
	}
	p.admit()

	return &Engine{
		pool:    p,
		runner:  runner,
		tracer:  otel.Tracer("campaignstore/storage/sqlite"),
		timeout: opts.StatementTimeout,
	}, nil
}

// MigrationState reports the terminal state the migration runner reached.
func (e *Engine) MigrationState() MigrationState {
	if e == nil || e.runner == nil {
		return MigrationNotStarted
	}
	return e.runner.state
}

// Read implements storage.Engine. The callback observes a single read
// snapshot: a deferred transaction on one of the shared read handles.
func (e *Engine) Read(ctx context.Context, fn func(q storage.Querier) error) error {
	conn, release, err := e.pool.acquireRead(ctx)
	if err != nil {
		return err
	}
	defer release()

	return e.inTx(ctx, conn, fn, true)
}

// Write implements storage.Engine. The callback runs in the single writer
// slot inside one transaction; submission order is commit order.
func (e *Engine) Write(ctx context.Context, fn func(q storage.Querier) error) error {
	conn, release, err := e.pool.acquireWrite(ctx)
	if err != nil {
		return err
	}
	defer release()

	return e.inTx(ctx, conn, fn, false)
}

// inTx brackets fn in a transaction on conn. Any error, including
// cancellation mid-callback, rolls back so the connection returns to the
// pool with no transaction open.
func (e *Engine) inTx(ctx context.Context, conn *sql.Conn, fn func(q storage.Querier) error, readOnly bool) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return classify(ctx, "begin transaction", err)
	}

	q := querier{target: tx, tracer: e.tracer, timeout: e.timeout}
	if err := fn(q); err != nil {
		_ = tx.Rollback()
		return classify(ctx, "transaction", err)
	}

	if readOnly {
		// Nothing to persist; releasing the snapshot is enough.
		if err := tx.Rollback(); err != nil {
			return classify(ctx, "release read snapshot", err)
		}
		return nil
	}
	if err := tx.Commit(); err != nil {
		return classify(ctx, "commit transaction", err)
	}
	return nil
}

// Version implements storage.Engine, reading PRAGMA user_version.
func (e *Engine) Version(ctx context.Context) (int, error) {
	conn, release, err := e.pool.acquireRead(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	var version int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, classify(ctx, "read schema version", err)
	}
	return version, nil
}

// Close implements storage.Engine, draining in-flight work first.
func (e *Engine) Close(ctx context.Context) error {
	if e == nil || e.pool == nil {
		return nil
	}
	return e.pool.close(ctx)
}
