package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

// classify maps engine and context failures into the domain taxonomy.
// The context is consulted first: a statement aborted because its deadline
// expired reports TIMEOUT no matter what the driver said.
func classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}

	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.CodeTimeout, op+": statement timed out", err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return apperrors.Wrap(apperrors.CodeCancelled, op+": statement cancelled", err)
	case errors.Is(err, sql.ErrNoRows):
		return storage.ErrNotFound
	}

	if isLockedError(err) {
		return apperrors.Wrap(apperrors.CodeLocked, op+": database file is locked", err)
	}
	if isConflictError(err) {
		return apperrors.Wrap(apperrors.CodeConflict, op+": record already exists", err)
	}
	return apperrors.Wrap(apperrors.CodeIO, op+": storage engine failure", err)
}

// isLockedError reports whether the engine rejected the statement because
// another handle holds the file or write lock.
func isLockedError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "database is locked") ||
		strings.Contains(value, "database table is locked") ||
		strings.Contains(value, "busy")
}

// isConflictError reports whether the statement violated a uniqueness
// constraint.
func isConflictError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint failed") ||
		strings.Contains(value, "constraint violation")
}
