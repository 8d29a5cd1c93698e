package campaign

import (
	"context"
	"strconv"

	"github.com/vbamtools/campaignstore/internal/storage"
	"github.com/vbamtools/campaignstore/internal/storage/async"
	"github.com/vbamtools/campaignstore/internal/storage/repo"
)

// Campaign is an open handle to one campaign database. It owns the
// underlying engine and must be closed when the application is done.
type Campaign struct {
	Name string
	Path string

	store *repo.Store
}

// Store exposes the campaign's repositories.
func (c *Campaign) Store() *repo.Store {
	return c.store
}

// CurrentTurn reports the campaign's current turn number.
func (c *Campaign) CurrentTurn(ctx context.Context) (int64, error) {
	return c.store.Control.CurrentTurn(ctx)
}

// AdvanceTurn increments the turn counter, records an audit event, and
// returns the new turn number.
func (c *Campaign) AdvanceTurn(ctx context.Context) (int64, error) {
	turn, err := c.store.Control.AdvanceTurn(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.store.Audit.Append(ctx, storage.AuditEvent{
		EventName:  "campaign.turn.advanced",
		Severity:   "INFO",
		Attributes: map[string]string{"turn": strconv.FormatInt(turn, 10)},
	}); err != nil {
		return 0, err
	}
	return turn, nil
}

// InstanceID reports the identifier stamped when the campaign was created.
func (c *Campaign) InstanceID(ctx context.Context) (string, error) {
	return c.store.Control.InstanceID(ctx)
}

// Statistics returns aggregate record counts for the campaign.
func (c *Campaign) Statistics(ctx context.Context) (storage.Statistics, error) {
	return c.store.Statistics(ctx)
}

// ListSessionsAsync starts a session listing off the caller's goroutine.
// An interactive loop can select on the future's Done channel and cancel
// it when the view is torn down.
func (c *Campaign) ListSessionsAsync(ctx context.Context, filter storage.SessionFilter) *async.Future[*storage.Cursor[storage.SessionRecord]] {
	return async.Go(ctx, func(ctx context.Context) (*storage.Cursor[storage.SessionRecord], error) {
		return c.store.Sessions.List(ctx, filter)
	})
}

// StatisticsAsync starts a statistics read off the caller's goroutine.
func (c *Campaign) StatisticsAsync(ctx context.Context) *async.Future[storage.Statistics] {
	return async.Go(ctx, func(ctx context.Context) (storage.Statistics, error) {
		return c.store.Statistics(ctx)
	})
}

// Close drains in-flight operations and releases the database file.
//
// Close is nil-safe so callers can defer it in all startup paths.
func (c *Campaign) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.store.Close(ctx)
}
