package guard

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Decider answers whether an existing path may be overwritten. It is only
// consulted when the caller did not already pass overwrite=true.
type Decider func(path string) bool

// AlwaysDeny refuses every overwrite. This is the right decider for a
// detached daemon, where nobody is around to answer a prompt.
func AlwaysDeny(string) bool { return false }

// Terminal prompts on stdin for a y/N answer. Only suitable for
// foreground, interactive use.
func Terminal(path string) bool {
	fmt.Printf("Local path %q already exists, overwrite? (y/N): ", path)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

// Guard performs safety checks before destructive local filesystem writes.
type Guard struct {
	log    *log.Logger
	decide Decider
}

// New creates a Guard. A nil decider denies all overwrites.
func New(logger *log.Logger, decide Decider) *Guard {
	if decide == nil {
		decide = AlwaysDeny
	}
	return &Guard{log: logger, decide: decide}
}

// CheckFile reports whether it is safe to write the file at path. If a
// regular file is already there, it is removed once overwriting has been
// permitted, either by the overwrite flag or by the decider.
func (g *Guard) CheckFile(path string, overwrite bool) bool {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true
	}
	if err != nil {
		g.log.Errorf("Cannot stat %q: %v", path, err)
		return false
	}
	if fi.IsDir() {
		g.log.Errorf("Local path %q exists, but is not a file", path)
		return false
	}
	if !overwrite && !g.decide(path) {
		g.log.Errorf("Overwrite of %q refused", path)
		return false
	}
	g.log.Debugf("Removing %q...", path)
	if err := os.Remove(path); err != nil {
		g.log.Errorf("Cannot remove %q: %v", path, err)
		return false
	}
	return true
}

// CheckFolder reports whether it is safe to write into the folder at path.
// A missing folder is created. An existing folder is recursively removed
// and recreated once overwriting has been permitted.
func (g *Guard) CheckFolder(path string, overwrite bool) bool {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.Mkdir(path, 0o755); err != nil {
			g.log.Errorf("Cannot create %q: %v", path, err)
			return false
		}
		return true
	}
	if err != nil {
		g.log.Errorf("Cannot stat %q: %v", path, err)
		return false
	}
	if !fi.IsDir() {
		g.log.Errorf("Local path %q exists, but is not a folder", path)
		return false
	}
	if !overwrite && !g.decide(path) {
		g.log.Errorf("Overwrite of %q refused", path)
		return false
	}
	g.log.Debugf("Removing %q...", path)
	if err := os.RemoveAll(path); err != nil {
		g.log.Errorf("Cannot remove %q: %v", path, err)
		return false
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		g.log.Errorf("Cannot recreate %q: %v", path, err)
		return false
	}
	// Mkdir is subject to the umask, so reset the permissions explicitly.
	if err := os.Chmod(path, 0o755); err != nil {
		g.log.Errorf("Cannot set permissions on %q: %v", path, err)
		return false
	}
	return true
}
