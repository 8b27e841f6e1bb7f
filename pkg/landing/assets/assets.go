// Package assets embeds the landing page's stylesheet and script.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static/styles.css
var embeddedCSS string

//go:embed static/app.js
var embeddedJS string

//go:embed static
var embeddedStatic embed.FS

// GetEmbeddedCSS returns the page stylesheet.
func GetEmbeddedCSS() string {
	return embeddedCSS
}

// GetEmbeddedJS returns the page script.
func GetEmbeddedJS() string {
	return embeddedJS
}

// Static returns the static directory rooted at its contents, for /static/.
func Static() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
