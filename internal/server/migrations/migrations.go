// Package migrations embeds the goose SQL migrations for the DocFlow schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
