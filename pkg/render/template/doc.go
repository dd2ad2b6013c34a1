// Package template defines the template engine seam markup renderers depend
// on. The pongo subpackage provides the default pongo2-backed engine.
package template
