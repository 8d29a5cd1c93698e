package repo_test

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

func TestShipTypeRosterPerEmpire(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	kili, err := store.Empires.Insert(ctx, storage.EmpireRecord{Name: "Kili"})
	if err != nil {
		t.Fatalf("insert empire: %v", err)
	}
	tirelon, err := store.Empires.Insert(ctx, storage.EmpireRecord{Name: "Tirelon"})
	if err != nil {
		t.Fatalf("insert empire: %v", err)
	}

	designs := []storage.ShipTypeRecord{
		{Class: "Frigate", Hull: "FF", Cost: 4, CR: 1, Atk: 2, Def: 2},
		{Class: "Cruiser", Hull: "CA", Cost: 8, CR: 2, Atk: 4, Def: 4, Empire: kili},
		{Class: "Raider", Hull: "DD", Cost: 5, CR: 1, Atk: 4, Def: 2, Empire: tirelon},
	}
	for _, design := range designs {
		if _, err := store.ShipTypes.Insert(ctx, design); err != nil {
			t.Fatalf("insert %q: %v", design.Class, err)
		}
	}

	cursor, err := store.ShipTypes.ListForEmpire(ctx, kili)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	records := cursor.Collect()
	if len(records) != 2 {
		t.Fatalf("records = %+v", records)
	}
	if records[0].Class != "Cruiser" || records[1].Class != "Frigate" {
		t.Fatalf("classes = %q, %q", records[0].Class, records[1].Class)
	}
	if records[1].Empire != 0 {
		t.Fatalf("common design empire = %d, want 0", records[1].Empire)
	}
}

func TestShipTypeInsertValidates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.ShipTypes.Insert(ctx, storage.ShipTypeRecord{ID: 7, Class: "Frigate"})
	if !apperrors.HasCode(err, apperrors.CodeRecordIDPreset) {
		t.Fatalf("expected RECORD_ID_PRESET, got %v", err)
	}
	_, err = store.ShipTypes.Insert(ctx, storage.ShipTypeRecord{Class: "  "})
	if !apperrors.HasCode(err, apperrors.CodeShipClassEmpty) {
		t.Fatalf("expected SHIP_CLASS_EMPTY, got %v", err)
	}
}

func TestShipRoundTripAndStatus(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empire, err := store.Empires.Insert(ctx, storage.EmpireRecord{Name: "Kili"})
	if err != nil {
		t.Fatalf("insert empire: %v", err)
	}
	system, err := store.Systems.Insert(ctx, storage.SystemRecord{Name: "Kili Prime", Owner: empire})
	if err != nil {
		t.Fatalf("insert system: %v", err)
	}
	fleet, err := store.Fleets.Insert(ctx, storage.FleetRecord{Name: "Home Fleet", Owner: empire, Location: system})
	if err != nil {
		t.Fatalf("insert fleet: %v", err)
	}
	design, err := store.ShipTypes.Insert(ctx, storage.ShipTypeRecord{Class: "Cruiser", Hull: "CA", Cost: 8})
	if err != nil {
		t.Fatalf("insert design: %v", err)
	}

	id, err := store.Ships.Insert(ctx, storage.ShipRecord{Type: design, Fleet: fleet})
	if err != nil {
		t.Fatalf("insert ship: %v", err)
	}
	got, err := store.Ships.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Crippled || got.Mothballed {
		t.Fatalf("new ship status = %+v", got)
	}

	got.Crippled = true
	if err := store.Ships.Update(ctx, id, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	damaged, err := store.Ships.Get(ctx, id)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if !damaged.Crippled || damaged.Mothballed {
		t.Fatalf("status = %+v", damaged)
	}

	cursor, err := store.Ships.ListByFleet(ctx, fleet)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if records := cursor.Collect(); len(records) != 1 || records[0].ID != id {
		t.Fatalf("records = %+v", records)
	}
}

func TestShipRejectsDanglingDesign(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empire, err := store.Empires.Insert(ctx, storage.EmpireRecord{Name: "Kili"})
	if err != nil {
		t.Fatalf("insert empire: %v", err)
	}
	system, err := store.Systems.Insert(ctx, storage.SystemRecord{Name: "Kili Prime", Owner: empire})
	if err != nil {
		t.Fatalf("insert system: %v", err)
	}
	fleet, err := store.Fleets.Insert(ctx, storage.FleetRecord{Name: "Home Fleet", Owner: empire, Location: system})
	if err != nil {
		t.Fatalf("insert fleet: %v", err)
	}

	if _, err := store.Ships.Insert(ctx, storage.ShipRecord{Type: 404, Fleet: fleet}); err == nil {
		t.Fatal("expected foreign key rejection")
	}
}

func TestGroundTypeStandardRosterSeeded(t *testing.T) {
	store := openTestStore(t)

	cursor, err := store.GroundTypes.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	records := cursor.Collect()
	if len(records) != 6 {
		t.Fatalf("got %d designs, want 6", len(records))
	}
	if records[0].Name != "Light Armor" || records[0].Abbr != "LA" {
		t.Fatalf("first design = %+v", records[0])
	}
	for _, record := range records {
		if record.Cost == 0 {
			t.Fatalf("design %q has zero cost", record.Name)
		}
	}
}

func TestGroundTypeDuplicateNameConflicts(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GroundTypes.Insert(context.Background(), storage.GroundTypeRecord{
		Name: "Militia", Abbr: "MIL", Cost: 2, Atk: 4, Def: 4,
	})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestGroundUnitRoundTripAndMove(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empire, err := store.Empires.Insert(ctx, storage.EmpireRecord{Name: "Kili"})
	if err != nil {
		t.Fatalf("insert empire: %v", err)
	}
	home, err := store.Systems.Insert(ctx, storage.SystemRecord{Name: "Kili Prime", Owner: empire})
	if err != nil {
		t.Fatalf("insert system: %v", err)
	}
	outpost, err := store.Systems.Insert(ctx, storage.SystemRecord{Name: "Outpost"})
	if err != nil {
		t.Fatalf("insert system: %v", err)
	}
	design, err := store.GroundTypes.Insert(ctx, storage.GroundTypeRecord{
		Name: "Heavy Armor", Abbr: "HA", Cost: 6, Atk: 12, Def: 6,
	})
	if err != nil {
		t.Fatalf("insert design: %v", err)
	}

	id, err := store.GroundUnits.Insert(ctx, storage.GroundUnitRecord{Type: design, Location: home})
	if err != nil {
		t.Fatalf("insert unit: %v", err)
	}
	got, err := store.GroundUnits.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	got.Location = outpost
	if err := store.GroundUnits.Update(ctx, id, got); err != nil {
		t.Fatalf("move: %v", err)
	}
	cursor, err := store.GroundUnits.ListByLocation(ctx, outpost)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if records := cursor.Collect(); len(records) != 1 || records[0].ID != id {
		t.Fatalf("records = %+v", records)
	}

	if err := store.GroundUnits.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.GroundUnits.Delete(ctx, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := store.GroundUnits.Get(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
