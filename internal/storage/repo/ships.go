package repo

import (
	"context"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

// ShipTypes persists the campaign's ship design roster. A design with a
// zero Empire is available to every empire.
type ShipTypes struct {
	engine storage.Engine
}

// Insert stores a new ship design and returns its generated identifier.
func (r *ShipTypes) Insert(ctx context.Context, record storage.ShipTypeRecord) (int64, error) {
	if record.ID != 0 {
		return 0, idPreset("ship type")
	}
	if strings.TrimSpace(record.Class) == "" {
		return 0, apperrors.New(apperrors.CodeShipClassEmpty, "ship class is required")
	}

	var id int64
	err := r.engine.Write(ctx, func(q storage.Querier) error {
		res, err := q.Exec(ctx,
			`INSERT INTO ship_types (class, hull, cost, cr, atk, def, cap, empire)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			record.Class, record.Hull, record.Cost, record.CR,
			record.Atk, record.Def, record.Cap, toNullInt(record.Empire),
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

// Get loads one ship design by identifier.
func (r *ShipTypes) Get(ctx context.Context, id int64) (storage.ShipTypeRecord, error) {
	var record storage.ShipTypeRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, selectShipTypes+" WHERE id = ?", id)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return notFound("ship type", id)
		}
		record, err = scanShipType(rs.Row(0))
		return err
	})
	if err != nil {
		return storage.ShipTypeRecord{}, err
	}
	return record, nil
}

// ListForEmpire returns the designs an empire can build: its own plus the
// common roster, ordered by class.
func (r *ShipTypes) ListForEmpire(ctx context.Context, empire int64) (*storage.Cursor[storage.ShipTypeRecord], error) {
	var records []storage.ShipTypeRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx,
			selectShipTypes+" WHERE empire IS NULL OR empire = ? ORDER BY class", empire)
		if err != nil {
			return err
		}
		records = make([]storage.ShipTypeRecord, 0, rs.Len())
		for i := 0; i < rs.Len(); i++ {
			record, err := scanShipType(rs.Row(i))
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

// Delete removes a ship design physically and idempotently. Designs with
// ships built from them are protected by the foreign key.
func (r *ShipTypes) Delete(ctx context.Context, id int64) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, "DELETE FROM ship_types WHERE id = ?", id)
		return err
	})
}

const selectShipTypes = `SELECT id, class, hull, cost, cr, atk, def, cap, empire FROM ship_types`

func scanShipType(row storage.Row) (storage.ShipTypeRecord, error) {
	var (
		record storage.ShipTypeRecord
		err    error
	)
	if record.ID, err = row.Int("id"); err != nil {
		return storage.ShipTypeRecord{}, err
	}
	if record.Class, err = row.Text("class"); err != nil {
		return storage.ShipTypeRecord{}, err
	}
	if record.Hull, err = row.Text("hull"); err != nil {
		return storage.ShipTypeRecord{}, err
	}
	if record.Cost, err = row.Int("cost"); err != nil {
		return storage.ShipTypeRecord{}, err
	}
	if record.CR, err = row.Int("cr"); err != nil {
		return storage.ShipTypeRecord{}, err
	}
	if record.Atk, err = row.Int("atk"); err != nil {
		return storage.ShipTypeRecord{}, err
	}
	if record.Def, err = row.Int("def"); err != nil {
		return storage.ShipTypeRecord{}, err
	}
	if record.Cap, err = row.Int("cap"); err != nil {
		return storage.ShipTypeRecord{}, err
	}
	empire, ok, err := row.NullInt("empire")
	if err != nil {
		return storage.ShipTypeRecord{}, err
	}
	if ok {
		record.Empire = empire
	}
	return record, nil
}

// Ships persists the hulls assigned to fleets. Type and fleet are
// mandatory foreign keys; the engine rejects dangling references.
type Ships struct {
	engine storage.Engine
}

// Insert stores a new ship and returns its generated identifier.
func (r *Ships) Insert(ctx context.Context, record storage.ShipRecord) (int64, error) {
	if record.ID != 0 {
		return 0, idPreset("ship")
	}

	var id int64
	err := r.engine.Write(ctx, func(q storage.Querier) error {
		now := nowMillis()
		res, err := q.Exec(ctx,
			`INSERT INTO ships (stype, fleet, crip, moth, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			record.Type, record.Fleet, boolToInt(record.Crippled), boolToInt(record.Mothballed), now, now,
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

// Get loads one ship by identifier.
func (r *Ships) Get(ctx context.Context, id int64) (storage.ShipRecord, error) {
	var record storage.ShipRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, selectShips+" WHERE id = ?", id)
		if err != nil {
			return err
		}
		if rs.Len() == 0 {
			return notFound("ship", id)
		}
		record, err = scanShip(rs.Row(0))
		return err
	})
	if err != nil {
		return storage.ShipRecord{}, err
	}
	return record, nil
}

// Update replaces a ship's assignment and status, last-writer-wins.
// Transferring a ship between fleets is an update of its fleet reference.
func (r *Ships) Update(ctx context.Context, id int64, record storage.ShipRecord) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		res, err := q.Exec(ctx,
			`UPDATE ships SET stype = ?, fleet = ?, crip = ?, moth = ?, updated_at = ?
			 WHERE id = ?`,
			record.Type, record.Fleet, boolToInt(record.Crippled), boolToInt(record.Mothballed),
			nowMillis(), id,
		)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return notFound("ship", id)
		}
		return nil
	})
}

// Delete removes a ship physically and idempotently.
func (r *Ships) Delete(ctx context.Context, id int64) error {
	return r.engine.Write(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, "DELETE FROM ships WHERE id = ?", id)
		return err
	})
}

// ListByFleet returns the fleet's ships ordered by identifier.
func (r *Ships) ListByFleet(ctx context.Context, fleet int64) (*storage.Cursor[storage.ShipRecord], error) {
	var records []storage.ShipRecord
	err := r.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, selectShips+" WHERE fleet = ? ORDER BY id", fleet)
		if err != nil {
			return err
		}
		records = make([]storage.ShipRecord, 0, rs.Len())
		for i := 0; i < rs.Len(); i++ {
			record, err := scanShip(rs.Row(i))
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

const selectShips = `SELECT id, stype, fleet, crip, moth, created_at, updated_at FROM ships`

func scanShip(row storage.Row) (storage.ShipRecord, error) {
	var (
		record storage.ShipRecord
		err    error
	)
	if record.ID, err = row.Int("id"); err != nil {
		return storage.ShipRecord{}, err
	}
	if record.Type, err = row.Int("stype"); err != nil {
		return storage.ShipRecord{}, err
	}
	if record.Fleet, err = row.Int("fleet"); err != nil {
		return storage.ShipRecord{}, err
	}
	crip, err := row.Int("crip")
	if err != nil {
		return storage.ShipRecord{}, err
	}
	record.Crippled = crip != 0
	moth, err := row.Int("moth")
	if err != nil {
		return storage.ShipRecord{}, err
	}
	record.Mothballed = moth != 0
	if record.CreatedAt, err = row.Time("created_at"); err != nil {
		return storage.ShipRecord{}, err
	}
	if record.UpdatedAt, err = row.Time("updated_at"); err != nil {
		return storage.ShipRecord{}, err
	}
	return record, nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
