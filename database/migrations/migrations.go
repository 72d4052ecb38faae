// Package migrations holds the schema migration files. Each registers
// itself in init(); cmd/kopistore imports this package so every migration
// is known before a CLI command runs.
package migrations
