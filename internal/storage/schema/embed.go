package schema

import "embed"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Campaign is the production migration chain for campaign database files.
var Campaign = MustNew(Load(migrationsFS, "migrations"))
