package repo_test

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

func TestAuditAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.Audit.Append(ctx, storage.AuditEvent{
		EventName:  "campaign.turn.advanced",
		Severity:   "INFO",
		Attributes: map[string]string{"turn": "3"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = store.Audit.Append(ctx, storage.AuditEvent{
		EventName: "campaign.import.systems",
		Severity:  "INFO",
		Timestamp: time.Now().Add(time.Second),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := store.Audit.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	// Newest first.
	if events[0].EventName != "campaign.import.systems" {
		t.Fatalf("first = %q", events[0].EventName)
	}
	if events[1].Attributes["turn"] != "3" {
		t.Fatalf("attributes = %v", events[1].Attributes)
	}
	if events[0].ID == "" || events[1].ID == "" {
		t.Fatal("expected generated ids")
	}
}

func TestAuditAppendValidates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.Audit.Append(ctx, storage.AuditEvent{Severity: "INFO"})
	if !apperrors.HasCode(err, apperrors.CodeAuditEventInvalid) {
		t.Fatalf("expected AUDIT_EVENT_INVALID for missing name, got %v", err)
	}
	err = store.Audit.Append(ctx, storage.AuditEvent{EventName: "x"})
	if !apperrors.HasCode(err, apperrors.CodeAuditEventInvalid) {
		t.Fatalf("expected AUDIT_EVENT_INVALID for missing severity, got %v", err)
	}
}

func TestStatisticsCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Sessions.Insert(ctx, storage.SessionRecord{Title: "Session 1"}); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	empireID, err := store.Empires.Insert(ctx, storage.EmpireRecord{Name: "Human"})
	if err != nil {
		t.Fatalf("insert empire: %v", err)
	}
	systemID, err := store.Systems.Insert(ctx, storage.SystemRecord{Name: "Sol", Owner: empireID})
	if err != nil {
		t.Fatalf("insert system: %v", err)
	}
	if _, err := store.Fleets.Insert(ctx, storage.FleetRecord{Name: "Home Fleet", Owner: empireID, Location: systemID}); err != nil {
		t.Fatalf("insert fleet: %v", err)
	}

	stats, err := store.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	want := storage.Statistics{SessionCount: 1, EmpireCount: 1, SystemCount: 1, FleetCount: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}
