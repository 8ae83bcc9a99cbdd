package daemon

import (
	"context"
	"sync"

	"github.com/farmergreg/rfsnotify"
	"gopkg.in/fsnotify.v1"

	"github.com/gdrive-linux/drived/internal/excluder"
	"github.com/gdrive-linux/drived/internal/pathmap"
)

// changeCounter coalesces watcher events into a count that the poll loop
// consumes once per cycle.
type changeCounter struct {
	mu sync.Mutex
	n  int
}

func (c *changeCounter) add() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *changeCounter) take() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.n
	c.n = 0
	return n
}

// watchLocal watches the local tree and records changes seen between
// polls. The watcher never triggers a sync; scheduling stays strictly
// interval-driven. Any watch failure degrades to plain polling.
func (c *Controller) watchLocal(ctx context.Context) {
	root := c.cfg.LocalRoot()
	if root == "" {
		return
	}

	paths := pathmap.New(root)
	ex, err := excluder.New(c.cfg.Excludes(), root)
	if err != nil {
		c.log.Warnf("Failed to compile exclude patterns: %v", err)
		return
	}

	watcher, err := rfsnotify.NewWatcher()
	if err != nil {
		c.log.Warnf("Local change watching unavailable: %v", err)
		return
	}
	if err := watcher.AddRecursive(root); err != nil {
		c.log.Warnf("Cannot watch %q: %v", root, err)
		watcher.Close()
		return
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if ex.IsExcluded(event.Name) {
					c.log.Debugf("Excluded: %s", event.Name)
					continue
				}
				c.log.Debugf("Local change: %s", paths.RemotePath(event.Name))
				c.changes.add()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.log.Error("error:", err)
			case <-ctx.Done():
				return
			}
		}
	}()
}
