package repo

import (
	"context"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

// Systems persists the campaign's star systems. Names are unique; Owner is
// an optional empire reference persisted as NULL when zero.
type Systems struct {
	engine storage.Engine
}

// Insert stores a new system and returns its generated identifier.
func (r *Systems) Insert(ctx context.Context, record storage.SystemRecord) (int64, error) {
	if record.ID != 0 {
		return 0, idPreset("system")
	}
	if strings.TrimSpace(record.Name) == "" {
		return 0, apperrors.New(apperrors.CodeSystemNameEmpty, "system name is required")
	}

	var id int64
	err := r.engine.Write(ctx, func(q storage.Querier) error {
		var insertErr error
		id, insertErr = insertSystem(ctx, q, record)
		return insertErr
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// BatchInsert stores systems inside one transaction: either every record
// lands or none do. Used by the CSV map import.
func (r *Systems) BatchInsert(ctx context.Context, records []storage.SystemRecord) error {
	for _, record := range records {
		if strings.TrimSpace(record.Name) == "" {
			return apperrors.New(apperrors.CodeSystemNameEmpty, "system name is required")
		}
	}
	return r.engine.Write(ctx, func(q storage.Querier) error {
		for _, record := range records {
			if _, err := insertSystem(ctx, q, record); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertSystem(ctx context.Context, q storage.Querier, record storage.SystemRecord) (int64, error) {
	now := nowMillis()
	res, err := q.Exec(ctx,
		`INSERT INTO systems (name, ptype, raw, cap, pop, mor, ind, dev, fails, owner, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Name, record.Ptype, record.Raw, record.Cap, record.Pop,
		record.Mor, record.Ind, record.Dev, record.Fails,
		toNullInt(record.Owner), now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertID, nil
}

// Get loads one system by identifier.
func (r *Systems) Get(ctx context.Context, id int64) (storage.SystemRecord, error) {
	var record storage.SystemRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, selectSystems+" WHERE id = ?", id)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return notFound("system", id)
		}
		record, err = scanSystem(rs.Row(0))
		return err
	})
	if err != nil {
		return storage.SystemRecord{}, err
	}
	return record, nil
}

// Update replaces a system's payload, last-writer-wins.
func (r *Systems) Update(ctx context.Context, id int64, record storage.SystemRecord) error {
	if strings.TrimSpace(record.Name) == "" {
		return apperrors.New(apperrors.CodeSystemNameEmpty, "system name is required")
	}
	return r.engine.Write(ctx, func(q storage.Querier) error {
		res, err := q.Exec(ctx,
			`UPDATE systems SET name = ?, ptype = ?, raw = ?, cap = ?, pop = ?,
				mor = ?, ind = ?, dev = ?, fails = ?, owner = ?, updated_at = ?
			 WHERE id = ?`,
			record.Name, record.Ptype, record.Raw, record.Cap, record.Pop,
			record.Mor, record.Ind, record.Dev, record.Fails,
			toNullInt(record.Owner), nowMillis(), id,
		)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return notFound("system", id)
		}
		return nil
	})
}

// Delete removes a system physically and idempotently.
func (r *Systems) Delete(ctx context.Context, id int64) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, "DELETE FROM systems WHERE id = ?", id)
		return err
	})
}

// List returns a cursor over systems matching the filter, ordered by name.
func (r *Systems) List(ctx context.Context, filter storage.SystemFilter) (*storage.Cursor[storage.SystemRecord], error) {
	stmt := selectSystems
	var (
		clauses []string
		args    []any
	)
	if filter.Owner != nil {
		if *filter.Owner == 0 {
			clauses = append(clauses, "owner IS NULL")
		} else {
			clauses = append(clauses, "owner = ?")
			args = append(args, *filter.Owner)
		}
	}
	if filter.Ptype != "" {
		clauses = append(clauses, "ptype = ?")
		args = append(args, filter.Ptype)
	}
	if len(clauses) > 0 {
		stmt += " WHERE " + strings.Join(clauses, " AND ")
	}
	stmt += " ORDER BY name"

	var records []storage.SystemRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, stmt, args...)
		if err != nil {
			return err
		}
		records = make([]storage.SystemRecord, 0, rs.Len())
		for i := 0; i < rs.Len(); i++ {
			record, err := scanSystem(rs.Row(i))
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

const selectSystems = `SELECT id, name, ptype, raw, cap, pop, mor, ind, dev, fails, owner, created_at, updated_at FROM systems`

func scanSystem(row storage.Row) (storage.SystemRecord, error) {
	var (
		record storage.SystemRecord
		err    error
	)
	if record.ID, err = row.Int("id"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.Name, err = row.Text("name"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.Ptype, err = row.Text("ptype"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.Raw, err = row.Int("raw"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.Cap, err = row.Int("cap"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.Pop, err = row.Int("pop"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.Mor, err = row.Int("mor"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.Ind, err = row.Int("ind"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.Dev, err = row.Int("dev"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.Fails, err = row.Int("fails"); err != nil {
		return storage.SystemRecord{}, err
	}
	owner, ok, err := row.NullInt("owner")
	if err != nil {
		return storage.SystemRecord{}, err
	}
	if ok {
		record.Owner = owner
	}
	if record.CreatedAt, err = row.Time("created_at"); err != nil {
		return storage.SystemRecord{}, err
	}
	if record.UpdatedAt, err = row.Time("updated_at"); err != nil {
		return storage.SystemRecord{}, err
	}
	return record, nil
}
