package repo

import (
	"context"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

// Fleets persists the campaign's fleets. Owner and location are mandatory
// foreign keys; the engine rejects dangling references.
type Fleets struct {
	engine storage.Engine
}

// Insert stores a new fleet and returns its generated identifier.
func (r *Fleets) Insert(ctx context.Context, record storage.FleetRecord) (int64, error) {
	if record.ID != 0 {
		return 0, idPreset("fleet")
	}
	if strings.TrimSpace(record.Name) == "" {
		return 0, apperrors.New(apperrors.CodeFleetNameEmpty, "fleet name is required")
	}

	var id int64
	err := r.engine.Write(ctx, func(q storage.Querier) error {
		now := nowMillis()
		res, err := q.Exec(ctx,
			`INSERT INTO fleets (name, owner, location, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			record.Name, record.Owner, record.Location, now, now,
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

// Get loads one fleet by identifier.
func (r *Fleets) Get(ctx context.Context, id int64) (storage.FleetRecord, error) {
	var record storage.FleetRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx,
			`SELECT id, name, owner, location, created_at, updated_at
			 FROM fleets WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return notFound("fleet", id)
		}
		record, err = scanFleet(rs.Row(0))
		return err
	})
	if err != nil {
		return storage.FleetRecord{}, err
	}
	return record, nil
}

// Update replaces a fleet's payload, last-writer-wins. Moving a fleet is
// an update of its location reference.
func (r *Fleets) Update(ctx context.Context, id int64, record storage.FleetRecord) error {
	if strings.TrimSpace(record.Name) == "" {
		return apperrors.New(apperrors.CodeFleetNameEmpty, "fleet name is required")
	}
	return r.engine.Write(ctx, func(q storage.Querier) error {
		res, err := q.Exec(ctx,
			`UPDATE fleets SET name = ?, owner = ?, location = ?, updated_at = ?
			 WHERE id = ?`,
			record.Name, record.Owner, record.Location, nowMillis(), id,
		)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return notFound("fleet", id)
		}
		return nil
	})
}

// Delete removes a fleet physically and idempotently.
func (r *Fleets) Delete(ctx context.Context, id int64) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, "DELETE FROM fleets WHERE id = ?", id)
		return err
	})
}

// ListByOwner returns the empire's fleets ordered by name.
func (r *Fleets) ListByOwner(ctx context.Context, owner int64) (*storage.Cursor[storage.FleetRecord], error) {
	var records []storage.FleetRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx,
			`SELECT id, name, owner, location, created_at, updated_at
			 FROM fleets WHERE owner = ? ORDER BY name`, owner)
		if err != nil {
			return err
		}
		records = make([]storage.FleetRecord, 0, rs.Len())
		for i := 0; i < rs.Len(); i++ {
			record, err := scanFleet(rs.Row(i))
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

func scanFleet(row storage.Row) (storage.FleetRecord, error) {
	var (
		record storage.FleetRecord
		err    error
	)
	if record.ID, err = row.Int("id"); err != nil {
		return storage.FleetRecord{}, err
	}
	if record.Name, err = row.Text("name"); err != nil {
		return storage.FleetRecord{}, err
	}
	if record.Owner, err = row.Int("owner"); err != nil {
		return storage.FleetRecord{}, err
	}
	if record.Location, err = row.Int("location"); err != nil {
		return storage.FleetRecord{}, err
	}
	if record.CreatedAt, err = row.Time("created_at"); err != nil {
		return storage.FleetRecord{}, err
	}
	if record.UpdatedAt, err = row.Time("updated_at"); err != nil {
		return storage.FleetRecord{}, err
	}
	return record, nil
}
