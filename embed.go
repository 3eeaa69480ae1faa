package locket

import "embed"

// PagesFS contains the static HTML pages served at / and /gallery.
//
//go:embed web/*.html
var PagesFS embed.FS
