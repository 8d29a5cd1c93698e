package repo

import (
	"context"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

// GroundTypes persists the ground unit design roster. The standard VBAM
// roster is seeded when the campaign file is created; names are unique.
type GroundTypes struct {
	engine storage.Engine
}

// Insert stores a custom ground design and returns its generated
// identifier. A duplicate name fails with CONFLICT.
func (r *GroundTypes) Insert(ctx context.Context, record storage.GroundTypeRecord) (int64, error) {
	if record.ID != 0 {
		return 0, idPreset("ground type")
	}
	if strings.TrimSpace(record.Name) == "" {
		return 0, apperrors.New(apperrors.CodeGroundTypeNameEmpty, "ground type name is required")
	}

	var id int64
	err := r.engine.Write(ctx, func(q storage.Querier) error {
		res, err := q.Exec(ctx,
			`INSERT INTO ground_types (name, abbr, cost, atk, def)
			 VALUES (?, ?, ?, ?, ?)`,
			record.Name, record.Abbr, record.Cost, record.Atk, record.Def,
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

// Get loads one ground design by identifier.
func (r *GroundTypes) Get(ctx context.Context, id int64) (storage.GroundTypeRecord, error) {
	var record storage.GroundTypeRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, selectGroundTypes+" WHERE id = ?", id)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return notFound("ground type", id)
		}
		record, err = scanGroundType(rs.Row(0))
		return err
	})
	if err != nil {
		return storage.GroundTypeRecord{}, err
	}
	return record, nil
}

// List returns all ground designs ordered by name.
func (r *GroundTypes) List(ctx context.Context) (*storage.Cursor[storage.GroundTypeRecord], error) {
	var records []storage.GroundTypeRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, selectGroundTypes+" ORDER BY name")
		if err != nil {
			return err
		}
		records = make([]storage.GroundTypeRecord, 0, rs.Len())
		for i := 0; i < rs.Len(); i++ {
			record, err := scanGroundType(rs.Row(i))
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

const selectGroundTypes = `SELECT id, name, abbr, cost, atk, def FROM ground_types`

func scanGroundType(row storage.Row) (storage.GroundTypeRecord, error) {
	var (
		record storage.GroundTypeRecord
		err    error
	)
	if record.ID, err = row.Int("id"); err != nil {
		return storage.GroundTypeRecord{}, err
	}
	if record.Name, err = row.Text("name"); err != nil {
		return storage.GroundTypeRecord{}, err
	}
	if record.Abbr, err = row.Text("abbr"); err != nil {
		return storage.GroundTypeRecord{}, err
	}
	if record.Cost, err = row.Int("cost"); err != nil {
		return storage.GroundTypeRecord{}, err
	}
	if record.Atk, err = row.Int("atk"); err != nil {
		return storage.GroundTypeRecord{}, err
	}
	if record.Def, err = row.Int("def"); err != nil {
		return storage.GroundTypeRecord{}, err
	}
	return record, nil
}

// GroundUnits persists ground units stationed at systems. Type and
// location are mandatory foreign keys.
type GroundUnits struct {
	engine storage.Engine
}

// Insert stores a new ground unit and returns its generated identifier.
func (r *GroundUnits) Insert(ctx context.Context, record storage.GroundUnitRecord) (int64, error) {
	if record.ID != 0 {
		return 0, idPreset("ground unit")
	}

	var id int64
	err := r.engine.Write(ctx, func(q storage.Querier) error {
		now := nowMillis()
		res, err := q.Exec(ctx,
			`INSERT INTO ground_units (gtype, loc, created_at, updated_at)
			 VALUES (?, ?, ?, ?)`,
			record.Type, record.Location, now, now,
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

// Get loads one ground unit by identifier.
func (r *GroundUnits) Get(ctx context.Context, id int64) (storage.GroundUnitRecord, error) {
	var record storage.GroundUnitRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, selectGroundUnits+" WHERE id = ?", id)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return notFound("ground unit", id)
		}
		record, err = scanGroundUnit(rs.Row(0))
		return err
	})
	if err != nil {
		return storage.GroundUnitRecord{}, err
	}
	return record, nil
}

// Update replaces a ground unit's assignment, last-writer-wins.
// Redeploying a unit is an update of its location reference.
func (r *GroundUnits) Update(ctx context.Context, id int64, record storage.GroundUnitRecord) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		res, err := q.Exec(ctx,
			`UPDATE ground_units SET gtype = ?, loc = ?, updated_at = ? WHERE id = ?`,
			record.Type, record.Location, nowMillis(), id,
		)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return notFound("ground unit", id)
		}
		return nil
	})
}

// Delete removes a ground unit physically and idempotently.
func (r *GroundUnits) Delete(ctx context.Context, id int64) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, "DELETE FROM ground_units WHERE id = ?", id)
		return err
	})
}

// ListByLocation returns the units stationed at a system, ordered by
// identifier.
func (r *GroundUnits) ListByLocation(ctx context.Context, location int64) (*storage.Cursor[storage.GroundUnitRecord], error) {
	var records []storage.GroundUnitRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, selectGroundUnits+" WHERE loc = ? ORDER BY id", location)
		if err != nil {
			return err
		}
		records = make([]storage.GroundUnitRecord, 0, rs.Len())
		for i := 0; i < rs.Len(); i++ {
			record, err := scanGroundUnit(rs.Row(i))
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

const selectGroundUnits = `SELECT id, gtype, loc, created_at, updated_at FROM ground_units`

func scanGroundUnit(row storage.Row) (storage.GroundUnitRecord, error) {
	var (
		record storage.GroundUnitRecord
		err    error
	)
	if record.ID, err = row.Int("id"); err != nil {
		return storage.GroundUnitRecord{}, err
	}
	if record.Type, err = row.Int("gtype"); err != nil {
		return storage.GroundUnitRecord{}, err
	}
	if record.Location, err = row.Int("loc"); err != nil {
		return storage.GroundUnitRecord{}, err
	}
	if record.CreatedAt, err = row.Time("created_at"); err != nil {
		return storage.GroundUnitRecord{}, err
	}
	if record.UpdatedAt, err = row.Time("updated_at"); err != nil {
		return storage.GroundUnitRecord{}, err
	}
	return record, nil
}
