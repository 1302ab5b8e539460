package migrations

import "embed"

// FS contains the embedded Postgres migrations for the judging ledger.
//
//go:embed *.sql
var FS embed.FS
