package contactsvc

import "embed"

// MigrationsFS embeds the SQL migrations applied at startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
