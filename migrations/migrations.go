// Package migrations embeds the SQL migration files for the booking ledger.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
