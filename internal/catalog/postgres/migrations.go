package postgres

import (
	"embed"
)

// Migrations holds the read-model schema, applied at startup via
// database.RunMigrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
