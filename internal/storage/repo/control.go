package repo

import (
	"context"
	"strconv"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

const (
	controlKeyTurn       = "turn"
	controlKeyInstanceID = "instance_id"
)

// Control reads and advances the campaign control block: the turn counter
// and the instance identifier stamped when the file is created.
type Control struct {
	engine storage.Engine
}

// CurrentTurn reports the campaign's current turn number.
func (r *Control) CurrentTurn(ctx context.Context) (int64, error) {
	value, err := r.getValue(ctx, controlKeyTurn)
	if err != nil {
		return 0, err
	}
	turn, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, apperrors.WrapWithMetadata(
			apperrors.CodeDecode,
			"decode column value: turn is not an integer",
			map[string]string{"column": "value", "key": controlKeyTurn},
			err,
		)
	}
	return turn, nil
}

// AdvanceTurn increments the turn counter and returns the new value. The
// read-modify-write runs inside the single write transaction.
func (r *Control) AdvanceTurn(ctx context.Context) (int64, error) {
	var next int64
	err := r.engine.Write(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, "SELECT value FROM control WHERE key = ?", controlKeyTurn)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return apperrors.New(apperrors.CodeNotFound, "control block has no turn entry")
		}
		value, err := rs.Row(0).Text("value")
		if err != nil {
			return err
		}
		current, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeDecode, "decode column value: turn is not an integer", err)
		}
		next = current + 1
		_, err = q.Exec(ctx, "UPDATE control SET value = ? WHERE key = ?",
			strconv.FormatInt(next, 10), controlKeyTurn)
		return err
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// InstanceID reports the identifier stamped at campaign creation.
func (r *Control) InstanceID(ctx context.Context) (string, error) {
	return r.getValue(ctx, controlKeyInstanceID)
}

// StampInstanceID records the campaign's instance identifier once, at
// creation. Re-stamping an existing identifier fails with CONFLICT.
func (r *Control) StampInstanceID(ctx context.Context, id string) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, "INSERT INTO control (key, value) VALUES (?, ?)",
			controlKeyInstanceID, id)
		return err
	})
}

func (r *Control) getValue(ctx context.Context, key string) (string, error) {
	var value string
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, "SELECT value FROM control WHERE key = ?", key)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return apperrors.WithMetadata(
				apperrors.CodeNotFound,
				"control entry "+key+" not found",
				map[string]string{"key": key},
			)
		}
		value, err = rs.Row(0).Text("value")
		return err
	})
	if err != nil {
		return "", err
	}
	return value, nil
}
