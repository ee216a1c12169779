// Package migrations embeds the schema for policy holders, policies and the
// domain event log. Files follow the golang-migrate naming scheme.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
