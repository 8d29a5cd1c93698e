package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage/schema"
)

// MigrationState tracks the migration runner's lifecycle.
type MigrationState int

const (
	// MigrationNotStarted means the runner has not yet inspected the file.
	MigrationNotStarted MigrationState = iota
	// MigrationApplying means a step is being applied.
	MigrationApplying
	// MigrationCommitted means the file is at the latest version.
	MigrationCommitted
	// MigrationFailed means migration aborted; the file must not be used.
	MigrationFailed
)

// String implements fmt.Stringer for state reporting.
func (s MigrationState) String() string {
	switch s {
	case MigrationNotStarted:
		return "not_started"
	case MigrationApplying:
		return "applying"
	case MigrationCommitted:
		return "committed"
	case MigrationFailed:
		return "failed"
	}
	return "unknown"
}

// migrationRunner applies the registry's pending chain to one file.
//
// The whole pending chain runs inside a single transaction: either the file
// ends at the latest version or it is left untouched at its original
// version. The stored version lives in PRAGMA user_version, readable before
// any table is trusted, and its update participates in the transaction.
type migrationRunner struct {
	registry *schema.Registry
	state    MigrationState
	step     int
}

func newMigrationRunner(registry *schema.Registry) *migrationRunner {
	return &migrationRunner{registry: registry, state: MigrationNotStarted}
}

// run drives the state machine to a terminal state. It executes on the
// write handle before the pool admits repository traffic.
func (r *migrationRunner) run(ctx context.Context, db *sql.DB) error {
	stored, err := storedVersion(ctx, db)
	if err != nil {
		r.state = MigrationFailed
		return apperrors.Wrap(apperrors.CodeMigrationFailed, "read stored schema version", err)
	}

	latest := r.registry.LatestVersion()
	if stored > latest {
		r.state = MigrationFailed
		return apperrors.WithMetadata(
			apperrors.CodeSchemaTooNew,
			fmt.Sprintf("file schema version %d is newer than latest known version %d", stored, latest),
			map[string]string{"stored": strconv.Itoa(stored), "latest": strconv.Itoa(latest)},
		)
	}
	if stored == latest {
		r.state = MigrationCommitted
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		r.state = MigrationFailed
		return apperrors.Wrap(apperrors.CodeMigrationFailed, "begin migration transaction", err)
	}

	for _, step := range r.registry.MigrationsFrom(stored) {
		r.state = MigrationApplying
		r.step = step.To
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			_ = tx.Rollback()
			r.state = MigrationFailed
			return apperrors.WrapWithMetadata(
				apperrors.CodeMigrationFailed,
				fmt.Sprintf("apply migration %s (to version %d)", step.Name, step.To),
				map[string]string{"step": step.Name, "to": strconv.Itoa(step.To)},
				err,
			)
		}
	}

	// user_version is transactional: a rollback above leaves it untouched.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", latest)); err != nil {
		_ = tx.Rollback()
		r.state = MigrationFailed
		return apperrors.Wrap(apperrors.CodeMigrationFailed, "record schema version", err)
	}
	if err := tx.Commit(); err != nil {
		r.state = MigrationFailed
		return apperrors.Wrap(apperrors.CodeMigrationFailed, "commit migration transaction", err)
	}

	r.state = MigrationCommitted
	return nil
}

func storedVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}
