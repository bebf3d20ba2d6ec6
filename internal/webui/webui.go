// Package webui embeds the built static UI bundle served by the HTTP
// Gateway's catch-all route.
package webui

import "embed"

//go:embed dist
var Files embed.FS
