package migrate

import "embed"

// Embedded holds the SQL migrations compiled into every binary.
//
//go:embed migrations/*.sql
var Embedded embed.FS
