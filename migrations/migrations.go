// Package migrations вшивает SQL-миграции в бинарь сервера.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
