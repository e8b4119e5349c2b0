// Package templates holds the server-rendered admin pages and their assets.
package templates

import (
	"embed"
	"html/template"
	"io/fs"

	"novi.com/app/templates/shared"
)

//go:embed pages/*.html
var pagesFS embed.FS

//go:embed static
var staticFS embed.FS

// Parse loads every page into one set. Pages are addressed by their
// {{define}} name: list, detail, form, delete, error.
func Parse() (*template.Template, error) {
	return template.New("").Funcs(shared.Funcs()).ParseFS(pagesFS, "pages/*.html")
}

func Must() *template.Template {
	return template.Must(Parse())
}

// Static serves admin.css and admin.js.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
