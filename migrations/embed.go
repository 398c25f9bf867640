// Package migrations embeds the PostgreSQL schema migrations so the
// migrate command and integration tests do not depend on the working
// directory.
package migrations

import "embed"

// FS holds every *.sql migration in golang-migrate naming.
//
//go:embed *.sql
var FS embed.FS
