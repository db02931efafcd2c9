package migrations

import "embed"

// FS holds the SQL migrations, one sub-directory per storage backend.
//
//go:embed sqlite/*.sql
var FS embed.FS
