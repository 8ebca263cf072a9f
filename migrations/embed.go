// Package migrations embeds the SQL migration files so they can be applied
// via the goose programmatic API at server startup and in test setup.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to a goose.Provider instead of relying on a filesystem
// path at runtime.
//
//go:embed *.sql
var FS embed.FS
