// Package schema declares the versioned migration chain for campaign files.
//
// Migrations are embedded SQL files named NNNN_description.sql where NNNN is
// the version the step migrates to. The chain must be contiguous from
// version 1; a gap is a programming error detected when the registry is
// constructed, before any database is touched.
package schema

import (
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
)

// Migration is one ordered schema step from version To-1 to version To.
type Migration struct {
	From int
	To   int
	Name string
	SQL  string
}

// Registry holds a validated, contiguous migration chain.
type Registry struct {
	migrations []Migration
}

// New validates the chain and builds a registry. Steps may arrive in any
// order; they are sorted by target version before validation.
func New(migrations []Migration) (*Registry, error) {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].To < sorted[j].To })

	for i, m := range sorted {
		if m.To != i+1 {
			return nil, apperrors.WithMetadata(
				apperrors.CodeSchemaGap,
				fmt.Sprintf("migration chain has a gap: expected step to version %d, found %d (%s)", i+1, m.To, m.Name),
				map[string]string{"expected": strconv.Itoa(i + 1), "found": strconv.Itoa(m.To)},
			)
		}
		if m.From != m.To-1 {
			return nil, apperrors.New(
				apperrors.CodeSchemaGap,
				fmt.Sprintf("migration %s declares from-version %d, want %d", m.Name, m.From, m.To-1),
			)
		}
		if strings.TrimSpace(m.SQL) == "" {
			return nil, apperrors.New(
				apperrors.CodeSchemaGap,
				fmt.Sprintf("migration %s has no SQL", m.Name),
			)
		}
	}
	return &Registry{migrations: sorted}, nil
}

// MustNew builds a registry and panics on a broken chain. Intended for
// package-level registries where a gap must abort process start.
func MustNew(migrations []Migration, err error) *Registry {
	if err != nil {
		panic(err)
	}
	registry, err := New(migrations)
	if err != nil {
		panic(err)
	}
	return registry
}

// LatestVersion reports the highest version the registry can migrate to.
func (r *Registry) LatestVersion() int {
	if r == nil {
		return 0
	}
	return len(r.migrations)
}

// MigrationsFrom returns the ordered steps needed to move a database at
// version v to the latest version. An up-to-date version yields nil.
func (r *Registry) MigrationsFrom(v int) []Migration {
	if r == nil || v >= len(r.migrations) {
		return nil
	}
	if v < 0 {
		v = 0
	}
	steps := make([]Migration, len(r.migrations)-v)
	copy(steps, r.migrations[v:])
	return steps
}

// Load parses migration files from fsys under root. File names must look
// like 0002_add_fleets.sql; the numeric prefix is the target version.
func Load(fsys fs.FS, root string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version, label, err := parseName(name)
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(fsys, root+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, Migration{
			From: version - 1,
			To:   version,
			Name: label,
			SQL:  string(content),
		})
	}
	return migrations, nil
}

func parseName(name string) (int, string, error) {
	base := strings.TrimSuffix(name, ".sql")
	prefix, label, ok := strings.Cut(base, "_")
	if !ok {
		return 0, "", fmt.Errorf("migration file %s: want NNNN_description.sql", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("migration file %s: bad version prefix %q", name, prefix)
	}
	return version, label, nil
}
