package repo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vbamtools/campaignstore/internal/storage/repo"
	"github.com/vbamtools/campaignstore/internal/storage/sqlite"
)

func openTestStore(t *testing.T) *repo.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "campaign.db")
	engine, err := sqlite.Open(context.Background(), path, sqlite.Options{})
	if err != nil {
		t.Fatalf("open engine: %v", err)
	}
	t.Cleanup(func() {
		_ = engine.Close(context.Background())
	})
	return repo.New(engine)
}
