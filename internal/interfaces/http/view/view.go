// Package view holds the storefront HTML templates.
package view

import (
	"embed"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var files embed.FS

// Funcs are the helpers available to every template
var Funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
	"join": strings.Join,
}

// Load parses the embedded templates. Each page is addressed by its file
// name, e.g. "home.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html")
}
