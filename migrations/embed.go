// Package migrations embeds SQL migration files into the binary.
//
// This allows the controller to create its schema without the SQL files
// present on the device filesystem.
package migrations

import "embed"

// FS holds every *.sql file in this directory at its root.
//
//go:embed *.sql
var FS embed.FS
