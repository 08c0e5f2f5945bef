package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every Postgres schema change, registered from the numbered files.
var Migrations = migrate.NewMigrations()
