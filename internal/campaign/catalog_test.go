package campaign_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vbamtools/campaignstore/internal/campaign"
	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage/sqlite"
)

func newTestCatalog(t *testing.T) *campaign.Catalog {
	t.Helper()
	return campaign.NewCatalog(t.TempDir(), sqlite.Options{})
}

func TestCreateAndListCampaigns(t *testing.T) {
	dataDir := t.TempDir()
	catalog := campaign.NewCatalog(dataDir, sqlite.Options{})
	ctx := context.Background()

	c, err := catalog.Create(ctx, "Twilight Imperium")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { c.Close(context.Background()) })

	wantPath := filepath.Join(dataDir, "Twilight_Imperium.db")
	if c.Path != wantPath {
		t.Fatalf("path = %q, want %q", c.Path, wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("campaign file missing: %v", err)
	}

	infos, err := catalog.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "Twilight Imperium" {
		t.Fatalf("infos = %+v", infos)
	}
}

func TestCreateStampsInstanceID(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	c, err := catalog.Create(ctx, "alpha")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { c.Close(context.Background()) })

	instanceID, err := c.InstanceID(ctx)
	if err != nil {
		t.Fatalf("instance id: %v", err)
	}
	if len(instanceID) != 26 {
		t.Fatalf("instance id %q, want 26 chars", instanceID)
	}
}

func TestCreateExistingConflicts(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	c, err := catalog.Create(ctx, "alpha")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := c.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := catalog.Create(ctx, "alpha"); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestOpenMissingNotFound(t *testing.T) {
	catalog := newTestCatalog(t)

	_, err := catalog.Open(context.Background(), "ghost")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestOpenPreservesState(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	c, err := catalog.Create(ctx, "alpha")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	firstID, err := c.InstanceID(ctx)
	if err != nil {
		t.Fatalf("instance id: %v", err)
	}
	if _, err := c.AdvanceTurn(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := c.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := catalog.Open(ctx, "alpha")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { reopened.Close(context.Background()) })

	secondID, err := reopened.InstanceID(ctx)
	if err != nil {
		t.Fatalf("instance id: %v", err)
	}
	if secondID != firstID {
		t.Fatalf("instance id changed across reopen: %q != %q", secondID, firstID)
	}
	turn, err := reopened.CurrentTurn(ctx)
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if turn != 1 {
		t.Fatalf("turn = %d, want 1", turn)
	}
}

func TestDeleteRemovesFileAndIsIdempotent(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	c, err := catalog.Create(ctx, "alpha")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	path := c.Path
	if err := c.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := catalog.Delete("alpha"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
	if err := catalog.Delete("alpha"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestNameValidation(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	if _, err := catalog.Create(ctx, "  "); !apperrors.HasCode(err, apperrors.CodeCampaignNameEmpty) {
		t.Fatalf("empty name err = %v", err)
	}
	for _, name := range []string{"a/b", `a\b`, ".hidden"} {
		if _, err := catalog.Create(ctx, name); !apperrors.HasCode(err, apperrors.CodeCampaignNameInvalid) {
			t.Fatalf("name %q err = %v", name, err)
		}
	}
}

func TestListEmptyDataDir(t *testing.T) {
	catalog := campaign.NewCatalog(filepath.Join(t.TempDir(), "missing"), sqlite.Options{})

	infos, err := catalog.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("infos = %+v, want empty", infos)
	}
}
