package formstate

import (
	"io/fs"

	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the bundled stylesheet.
//
// Typical mount:
//
//	mux.Handle("/formstate/",
//	  http.StripPrefix("/formstate/",
//	    http.FileServerFS(formstate.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
