package preact

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded page template.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
