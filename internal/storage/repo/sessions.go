package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

// Sessions persists moderator session log entries.
type Sessions struct {
	engine storage.Engine
}

// Insert stores a new session entry and returns its generated identifier.
func (r *Sessions) Insert(ctx context.Context, record storage.SessionRecord) (int64, error) {
	if record.ID != 0 {
		return 0, idPreset("session")
	}
	if strings.TrimSpace(record.Title) == "" {
		return 0, apperrors.New(apperrors.CodeSessionTitleEmpty, "session title is required")
	}

	var id int64
	err := r.engine.Write(ctx, func(q storage.Querier) error {
		now := nowMillis()
		res, err := q.Exec(ctx,
			`INSERT INTO sessions (title, body, turn, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			record.Title, record.Body, record.Turn, now, now,
		)
		if err != nil {
			return err
		}
		id = res.LastInsertID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Get loads one session entry by identifier.
func (r *Sessions) Get(ctx context.Context, id int64) (storage.SessionRecord, error) {
	var record storage.SessionRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx,
			`SELECT id, title, body, turn, created_at, updated_at
			 FROM sessions WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return notFound("session", id)
		}
		record, err = scanSession(rs.Row(0))
		return err
	})
	if err != nil {
		return storage.SessionRecord{}, err
	}
	return record, nil
}

// Update replaces the payload of an existing entry, last-writer-wins.
// A deleted or never-created identifier fails with NOT_FOUND; a stale
// update never resurrects a deleted record.
func (r *Sessions) Update(ctx context.Context, id int64, record storage.SessionRecord) error {
	if strings.TrimSpace(record.Title) == "" {
		return apperrors.New(apperrors.CodeSessionTitleEmpty, "session title is required")
	}
	return r.engine.Write(ctx, func(q storage.Querier) error {
		res, err := q.Exec(ctx,
			`UPDATE sessions SET title = ?, body = ?, turn = ?, updated_at = ?
			 WHERE id = ?`,
			record.Title, record.Body, record.Turn, nowMillis(), id,
		)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return notFound("session", id)
		}
		return nil
	})
}

// Delete removes an entry physically. Deleting an absent identifier
// succeeds silently, so the operation is idempotent.
func (r *Sessions) Delete(ctx context.Context, id int64) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, "DELETE FROM sessions WHERE id = ?", id)
		return err
	})
}

// List returns a restartable cursor over entries matching the filter,
// ordered by identifier, read from a single snapshot.
func (r *Sessions) List(ctx context.Context, filter storage.SessionFilter) (*storage.Cursor[storage.SessionRecord], error) {
	stmt := `SELECT id, title, body, turn, created_at, updated_at FROM sessions`
	var (
		clauses []string
		args    []any
	)
	if filter.Turn != nil {
		clauses = append(clauses, "turn = ?")
		args = append(args, *filter.Turn)
	}
	if filter.TitlePrefix != "" {
		clauses = append(clauses, "title LIKE ? ESCAPE '\\'")
		args = append(args, likePrefix(filter.TitlePrefix))
	}
	if len(clauses) > 0 {
		stmt += " WHERE " + strings.Join(clauses, " AND ")
	}
	stmt += " ORDER BY id"

	var records []storage.SessionRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, stmt, args...)
		if err != nil {
			return err
		}
		records = make([]storage.SessionRecord, 0, rs.Len())
		for i := 0; i < rs.Len(); i++ {
			record, err := scanSession(rs.Row(i))
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return storage.NewCursor(records), nil
}

func scanSession(row storage.Row) (storage.SessionRecord, error) {
	var (
		record storage.SessionRecord
		err    error
	)
	if record.ID, err = row.Int("id"); err != nil {
		return storage.SessionRecord{}, err
	}
	if record.Title, err = row.Text("title"); err != nil {
		return storage.SessionRecord{}, err
	}
	if record.Body, err = row.Text("body"); err != nil {
		return storage.SessionRecord{}, err
	}
	if record.Turn, err = row.Int("turn"); err != nil {
		return storage.SessionRecord{}, err
	}
	if record.CreatedAt, err = row.Time("created_at"); err != nil {
		return storage.SessionRecord{}, err
	}
	if record.UpdatedAt, err = row.Time("updated_at"); err != nil {
		return storage.SessionRecord{}, err
	}
	return record, nil
}

func notFound(entity string, id int64) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		fmt.Sprintf("%s %d not found", entity, id),
		map[string]string{"entity": entity, "id": strconv.FormatInt(id, 10)},
	)
}

// idPreset rejects inserts that carry a caller-chosen identifier where the
// store assigns one.
func idPreset(entity string) error {
	return apperrors.WithMetadata(
		apperrors.CodeRecordIDPreset,
		entity+" id is assigned by the store",
		map[string]string{"entity": entity},
	)
}

// likePrefix escapes LIKE metacharacters in a prefix filter.
func likePrefix(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(prefix) + "%"
}
