// Package ui embeds the HTML templates and static assets served by cmd/web.
package ui

import "embed"

//go:embed "html" "static"
var Files embed.FS
