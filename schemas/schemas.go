// Package schemas embeds the JSON Schema contracts for every event the
// service produces or consumes.
package schemas

import "embed"

//go:embed events
var SchemasFS embed.FS
