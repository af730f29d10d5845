// Package web provides embedded static assets for the storefront. The
// stylesheet is embedded in the binary and served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
