package postgres

import "embed"

// MigrationsDir is the directory inside Migrations that holds the goose files.
const MigrationsDir = "migrations"

// Migrations holds the SQL schema migrations in goose format.
//
//go:embed migrations/*.sql
var Migrations embed.FS
