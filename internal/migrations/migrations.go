// Package migrations embeds the goose SQL migrations for the session core
// database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
