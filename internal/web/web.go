// Package web embeds the default static assets served when no static directory is configured.
//
// The bundled index.html is a three-field form that posts to /recommendations and lists
// the returned tracks. A configured static_dir replaces these assets entirely.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Assets returns the embedded asset tree rooted at the static directory.
func Assets() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
