// Package openapi derives form definition documents from OpenAPI 3 request
// bodies using kin-openapi. Documents are read through a Loader that resolves
// files, fs.FS entries and, when enabled, HTTP URLs.
package openapi
