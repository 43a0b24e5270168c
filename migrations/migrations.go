// Package migrations embeds the SQL migrations applied at startup.
package migrations

import "embed"

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
