// Package migrations embeds the SQL schema migrations for the SQLite store.
package migrations

import "embed"

// FS holds every *.sql migration, named NNN_description.{up,down}.sql.
//
//go:embed *.sql
var FS embed.FS
