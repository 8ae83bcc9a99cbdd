// Package pathmap maps between local filesystem paths and remote
// document-store paths, relative to the configured local root.
//
// Remote paths are root-relative ("/Work/notes.txt" addresses the document
// at <root>/Work/notes.txt). Both mapping directions are idempotent, so a
// path that is already on the target side passes through unchanged.
package pathmap

import (
	"path/filepath"
	"strings"
)

// Mapper translates paths relative to a local root directory.
type Mapper struct {
	root string
}

// New returns a Mapper bound to the given local root.
func New(root string) Mapper {
	return Mapper{root: root}
}

// Root returns the configured local root.
func (m Mapper) Root() string {
	return m.root
}

// LocalPath returns the local path corresponding to the given remote path.
func (m Mapper) LocalPath(remote string) string {
	if remote == "/" {
		return m.root
	}
	if strings.HasPrefix(remote, m.root) {
		return remote
	}
	// Strip a single leading separator so the join cannot discard the root.
	remote = strings.TrimPrefix(remote, "/")
	return filepath.Join(m.root, remote)
}

// RemotePath returns the remote path corresponding to the given local path.
// Paths outside the root are treated as already remote-relative.
func (m Mapper) RemotePath(local string) string {
	if strings.HasPrefix(local, m.root) {
		return strings.TrimPrefix(local, m.root)
	}
	return local
}
