// Package migrations embeds the goose SQL migrations for the postgres store.
// Table names are written as ${TABLE_PREFIX}name and substituted at run time.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
