// Package assets embeds the built-in problem sets, the SQLite migrations for
// the problem bank and the status message catalogs.
package assets

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed problems.yaml migrations/*.sql locales/*.yaml
var FS embed.FS

// ProblemSets returns the raw YAML document of built-in problem sets.
func ProblemSets() ([]byte, error) {
	return FS.ReadFile("problems.yaml")
}

// Migrations returns the migration scripts rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "migrations")
	if err != nil {
		// only fails on an invalid path, which is fixed at compile time
		panic(err)
	}
	return sub
}

// Locales returns each message catalog keyed by its file name (en.yaml, uk.yaml).
func Locales() (map[string][]byte, error) {
	names, err := fs.Glob(FS, "locales/*.yaml")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(names))
	for _, n := range names {
		b, err := FS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out[path.Base(n)] = b
	}
	return out, nil
}
