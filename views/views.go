package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the LIFF pages. Each template is named after its file.
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
