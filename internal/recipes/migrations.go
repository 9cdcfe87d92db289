package recipes

import "embed"

// MigrationsDir is the directory within Migrations that holds the schema files.
const MigrationsDir = "migrations"

// Migrations holds the PostgreSQL schema for the recipe, shelf, and category
// tables in golang-migrate's numbered up/down layout.
//
//go:embed migrations/*.sql
var Migrations embed.FS
