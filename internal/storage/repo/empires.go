package repo

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

// Empires persists the campaign's empires. Names are unique across the
// campaign; inserting a duplicate name fails with CONFLICT.
type Empires struct {
	engine storage.Engine
}

// Insert stores a new empire and returns its generated identifier.
func (r *Empires) Insert(ctx context.Context, record storage.EmpireRecord) (int64, error) {
	if record.ID != 0 {
		return 0, idPreset("empire")
	}
	if strings.TrimSpace(record.Name) == "" {
		return 0, apperrors.New(apperrors.CodeEmpireNameEmpty, "empire name is required")
	}

	var id int64
	err := r.engine.Write(ctx, func(q storage.Querier) error {
		now := nowMillis()
		res, err := q.Exec(ctx,
			`INSERT INTO empires (name, treasury, tech, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			record.Name, record.Treasury, record.Tech, now, now,
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

// Get loads one empire by identifier.
func (r *Empires) Get(ctx context.Context, id int64) (storage.EmpireRecord, error) {
	var record storage.EmpireRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx,
			`SELECT id, name, treasury, tech, created_at, updated_at
			 FROM empires WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return notFound("empire", id)
		}
		record, err = scanEmpire(rs.Row(0))
		return err
	})
	if err != nil {
		return storage.EmpireRecord{}, err
	}
	return record, nil
}

// GetByName loads one empire by its unique name.
func (r *Empires) GetByName(ctx context.Context, name string) (storage.EmpireRecord, error) {
	var record storage.EmpireRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx,
			`SELECT id, name, treasury, tech, created_at, updated_at
			 FROM empires WHERE name = ?`, name)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return apperrors.WithMetadata(
				apperrors.CodeNotFound,
				fmt.Sprintf("empire %q not found", name),
				map[string]string{"entity": "empire", "name": name},
			)
		}
		record, err = scanEmpire(rs.Row(0))
		return err
	})
	if err != nil {
		return storage.EmpireRecord{}, err
	}
	return record, nil
}

// Update replaces an empire's payload, last-writer-wins.
func (r *Empires) Update(ctx context.Context, id int64, record storage.EmpireRecord) error {
	if strings.TrimSpace(record.Name) == "" {
		return apperrors.New(apperrors.CodeEmpireNameEmpty, "empire name is required")
	}
	return r.engine.Write(ctx, func(q storage.Querier) error {
		res, err := q.Exec(ctx,
			`UPDATE empires SET name = ?, treasury = ?, tech = ?, updated_at = ?
			 WHERE id = ?`,
			record.Name, record.Treasury, record.Tech, nowMillis(), id,
		)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return notFound("empire", id)
		}
		return nil
	})
}

// Delete removes an empire physically and idempotently.
func (r *Empires) Delete(ctx context.Context, id int64) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, "DELETE FROM empires WHERE id = ?", id)
		return err
	})
}

// List returns all empires ordered by name, read from one snapshot.
func (r *Empires) List(ctx context.Context) (*storage.Cursor[storage.EmpireRecord], error) {
	var records []storage.EmpireRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx,
			`SELECT id, name, treasury, tech, created_at, updated_at
			 FROM empires ORDER BY name`)
		if err != nil {
			return err
		}
		records = make([]storage.EmpireRecord, 0, rs.Len())
		for i := 0; i < rs.Len(); i++ {
			record, err := scanEmpire(rs.Row(i))
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

func scanEmpire(row storage.Row) (storage.EmpireRecord, error) {
	var (
		record storage.EmpireRecord
		err    error
	)
	if record.ID, err = row.Int("id"); err != nil {
		return storage.EmpireRecord{}, err
	}
	if record.Name, err = row.Text("name"); err != nil {
		return storage.EmpireRecord{}, err
	}
	if record.Treasury, err = row.Int("treasury"); err != nil {
		return storage.EmpireRecord{}, err
	}
	if record.Tech, err = row.Int("tech"); err != nil {
		return storage.EmpireRecord{}, err
	}
	if record.CreatedAt, err = row.Time("created_at"); err != nil {
		return storage.EmpireRecord{}, err
	}
	if record.UpdatedAt, err = row.Time("updated_at"); err != nil {
		return storage.EmpireRecord{}, err
	}
	return record, nil
}
