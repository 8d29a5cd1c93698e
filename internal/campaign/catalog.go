package campaign

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/platform/id"
	"github.com/vbamtools/campaignstore/internal/storage"
	"github.com/vbamtools/campaignstore/internal/storage/repo"
	"github.com/vbamtools/campaignstore/internal/storage/sqlite"
)

const fileSuffix = ".db"

var (
	// ErrEmptyName indicates a missing campaign name.
	ErrEmptyName = apperrors.New(apperrors.CodeCampaignNameEmpty, "campaign name is required")
	// ErrInvalidName indicates a campaign name that cannot map to a file name.
	ErrInvalidName = apperrors.New(apperrors.CodeCampaignNameInvalid, "campaign name contains invalid characters")
)

// Info describes one catalog entry.
type Info struct {
	// Name is the display name, with underscores mapped back to spaces.
	Name string
	// Path is the absolute location of the database file.
	Path string
}

// Catalog lists, creates, opens, and deletes campaign database files under
// one data directory.
type Catalog struct {
	dataDir string
	opts    sqlite.Options
}

// NewCatalog returns a catalog rooted at dataDir. The directory is created
// on first Create if it does not exist.
func NewCatalog(dataDir string, opts sqlite.Options) *Catalog {
	return &Catalog{dataDir: dataDir, opts: opts}
}

// List returns the campaigns present in the data directory, sorted by name.
// A missing data directory yields an empty catalog, not an error.
func (c *Catalog) List() ([]Info, error) {
	entries, err := os.ReadDir(c.dataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeIO, "read data directory", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		infos = append(infos, Info{
			Name: displayName(entry.Name()),
			Path: filepath.Join(c.dataDir, entry.Name()),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Create makes a new campaign file, runs migrations, stamps its instance
// identifier, and returns the open handle. Creating a name that already
// exists fails with CONFLICT.
func (c *Catalog) Create(ctx context.Context, name string) (*Campaign, error) {
	path, err := c.pathFor(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, apperrors.WithMetadata(
			apperrors.CodeConflict,
			"campaign already exists",
			map[string]string{"name": name},
		)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Wrap(apperrors.CodeIO, "stat campaign file", err)
	}
	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "create data directory", err)
	}

	handle, err := c.open(ctx, name, path)
	if err != nil {
		return nil, err
	}

	instanceID, err := id.NewID()
	if err != nil {
		_ = handle.Close(ctx)
		return nil, err
	}
	if err := handle.store.Control.StampInstanceID(ctx, instanceID); err != nil {
		_ = handle.Close(ctx)
		return nil, err
	}
	if err := handle.store.Audit.Append(ctx, storage.AuditEvent{
		EventName:  "campaign.created",
		Severity:   "INFO",
		Attributes: map[string]string{"name": name, "instance_id": instanceID},
	}); err != nil {
		_ = handle.Close(ctx)
		return nil, err
	}
	return handle, nil
}

// Open opens an existing campaign by name, running any pending migrations.
// A missing file fails with NOT_FOUND rather than creating one.
func (c *Catalog) Open(ctx context.Context, name string) (*Campaign, error) {
	path, err := c.pathFor(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.WithMetadata(
				apperrors.CodeNotFound,
				"campaign not found",
				map[string]string{"name": name},
			)
		}
		return nil, apperrors.Wrap(apperrors.CodeIO, "stat campaign file", err)
	}
	return c.open(ctx, name, path)
}

// Delete removes a campaign file. Deleting a campaign that does not exist
// is a no-op, matching the repositories' idempotent delete policy.
func (c *Catalog) Delete(name string) error {
	path, err := c.pathFor(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(apperrors.CodeIO, "remove campaign file", err)
	}
	// WAL sidecar files are recreated on open; clean them up with the db.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return apperrors.Wrap(apperrors.CodeIO, "remove campaign sidecar file", err)
		}
	}
	return nil
}

func (c *Catalog) open(ctx context.Context, name, path string) (*Campaign, error) {
	engine, err := sqlite.Open(ctx, path, c.opts)
	if err != nil {
		return nil, err
	}
	return &Campaign{
		Name:  name,
		Path:  path,
		store: repo.New(engine),
	}, nil
}

func (c *Catalog) pathFor(name string) (string, error) {
	file, err := fileName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dataDir, file), nil
}

// fileName maps a campaign name to its on-disk file name: spaces become
// underscores and the .db suffix is appended.
func fileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	return strings.ReplaceAll(name, " ", "_") + fileSuffix, nil
}

func displayName(file string) string {
	name := strings.TrimSuffix(file, fileSuffix)
	return strings.ReplaceAll(name, "_", " ")
}
