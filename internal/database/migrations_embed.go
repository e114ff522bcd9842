package database

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationsFS returns the compiled-in migration files. Shipping them in the
// binary keeps cmd/api and cmd/seed independent of the working directory.
func MigrationsFS() fs.FS {
	return migrationFiles
}

// MigrationsPath is the directory inside MigrationsFS holding *.up.sql files.
const MigrationsPath = "migrations"
