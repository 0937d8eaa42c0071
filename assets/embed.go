// Package assets embeds the data the server ships with: the country catalog
// and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed countries.json sql/*.sql
var FS embed.FS

// Countries returns the raw embedded country catalog (JSON array).
func Countries() ([]byte, error) {
	return FS.ReadFile("countries.json")
}

// Migrations returns the migration directory rooted at "sql".
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
