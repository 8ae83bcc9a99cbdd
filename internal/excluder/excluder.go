package excluder

import (
	"strings"

	"github.com/gobwas/glob"
)

// Excluder matches paths under the sync root against the configured
// exclude list. Entries containing glob meta characters are compiled as
// globs over the root-relative path; plain entries match as path
// fragments anywhere below the root.
type Excluder struct {
	root      string
	fragments []string
	globs     []glob.Glob
}

// New creates an Excluder for the given exclude entries and sync root.
// Glob entries use '/' as the path separator.
func New(entries []string, root string) (*Excluder, error) {
	e := &Excluder{root: root}
	for _, entry := range entries {
		if strings.ContainsAny(entry, "*?[{") {
			g, err := glob.Compile(entry, '/')
			if err != nil {
				return nil, err
			}
			e.globs = append(e.globs, g)
			continue
		}
		e.fragments = append(e.fragments, entry)
	}
	return e, nil
}

// IsExcluded returns true if the given path matches any exclude entry.
func (e *Excluder) IsExcluded(path string) bool {
	rel := strings.TrimPrefix(strings.TrimPrefix(path, e.root), "/")
	for _, fragment := range e.fragments {
		if strings.Contains(rel, fragment) {
			return true
		}
	}
	for _, g := range e.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
