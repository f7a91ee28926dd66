// Package migrations embeds the SQL schema of the local profile database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
