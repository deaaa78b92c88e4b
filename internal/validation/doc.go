// Package validation guards the edges of the service: uploaded files are
// checked by extension and size, local files by existence, and request
// and payload structs by their validate tags.
package validation
