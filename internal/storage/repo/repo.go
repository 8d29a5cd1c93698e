// Package repo provides entity-shaped repositories over the storage engine.
//
// Each repository issues SQL through the storage.Engine capability
// interface and never touches database/sql directly, so it works against
// any engine implementation. Every mutating operation runs inside one
// write transaction; every listing reads from one snapshot.
//
// Identifier policy: row entities (sessions, empires, systems, fleets) use
// engine-generated integer identifiers. Empire and system names are unique
// and collide with CONFLICT. Updates are last-writer-wins; deletes are
// physical and idempotent.
package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/vbamtools/campaignstore/internal/storage"
)

// Store bundles the repositories for one campaign database.
type Store struct {
	engine storage.Engine

	Sessions    *Sessions
	Empires     *Empires
	Systems     *Systems
	Fleets      *Fleets
	ShipTypes   *ShipTypes
	Ships       *Ships
	GroundTypes *GroundTypes
	GroundUnits *GroundUnits
	Control     *Control
	Audit       *Audit
}

// New wires repositories over an opened engine.
func New(engine storage.Engine) *Store {
	return &Store{
		engine:      engine,
		Sessions:    &Sessions{engine: engine},
		Empires:     &Empires{engine: engine},
		Systems:     &Systems{engine: engine},
		Fleets:      &Fleets{engine: engine},
		ShipTypes:   &ShipTypes{engine: engine},
		Ships:       &Ships{engine: engine},
		GroundTypes: &GroundTypes{engine: engine},
		GroundUnits: &GroundUnits{engine: engine},
		Control:     &Control{engine: engine},
		Audit:       &Audit{engine: engine},
	}
}

// Statistics returns aggregate record counts from one read snapshot.
func (s *Store) Statistics(ctx context.Context) (storage.Statistics, error) {
	var stats storage.Statistics
	err := s.engine.Read(ctx, func(q storage.Querier) error {
		rs, err := q.Query(ctx, `
			SELECT
				(SELECT count(*) FROM sessions) AS session_count,
				(SELECT count(*) FROM empires) AS empire_count,
				(SELECT count(*) FROM systems) AS system_count,
				(SELECT count(*) FROM fleets) AS fleet_count`)
		if err != nil {
			return err
		}
		row := rs.Row(0)
		if stats.SessionCount, err = row.Int("session_count"); err != nil {
			return err
		}
		if stats.EmpireCount, err = row.Int("empire_count"); err != nil {
			return err
		}
		if stats.SystemCount, err = row.Int("system_count"); err != nil {
			return err
		}
		if stats.FleetCount, err = row.Int("fleet_count"); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return storage.Statistics{}, err
	}
	return stats, nil
}

// Engine exposes the underlying engine for lifecycle management.
func (s *Store) Engine() storage.Engine {
	return s.engine
}

// Close drains and closes the underlying engine.
//
// Close is nil-safe so callers can defer it in all startup paths.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.engine == nil {
		return nil
	}
	return s.engine.Close(ctx)
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func nowMillis() int64 {
	return toMillis(time.Now())
}

// toNullInt maps zero-valued references to NULL for optional foreign keys.
func toNullInt(value int64) sql.NullInt64 {
	if value == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value, Valid: true}
}
