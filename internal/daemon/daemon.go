// Package daemon contains the synchronization control loop.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gdrive-linux/drived/internal/config"
	"github.com/gdrive-linux/drived/internal/remote"
	"github.com/gdrive-linux/drived/internal/utils"
)

const (
	// UpdateInterval is the pause after a successful sync attempt.
	UpdateInterval = 30 * time.Second

	// RetryInterval is the pause after a recoverable remote API error.
	RetryInterval = 60 * time.Second
)

// Controller drives repeated synchronization attempts against the remote
// store. Attempts are strictly sequential: the next attempt never starts
// before the previous attempt's sleep interval has elapsed.
type Controller struct {
	cfg  *config.Config
	log  *log.Logger
	dial remote.Dialer

	updateInterval time.Duration
	retryInterval  time.Duration

	changes changeCounter

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Controller with the standard intervals.
func New(cfg *config.Config, logger *log.Logger, dial remote.Dialer) *Controller {
	return &Controller{
		cfg:            cfg,
		log:            logger,
		dial:           dial,
		updateInterval: UpdateInterval,
		retryInterval:  RetryInterval,
		sleep:          sleepCtx,
	}
}

// SetIntervals overrides the standard update and retry intervals.
// Non-positive values leave the corresponding interval unchanged.
func (c *Controller) SetIntervals(update, retry time.Duration) {
	if update > 0 {
		c.updateInterval = update
	}
	if retry > 0 {
		c.retryInterval = retry
	}
}

// Run establishes the remote session and executes the poll loop until a
// fatal error or context cancellation. A session that cannot be
// established is fatal: there is nothing to retry against.
//
// Recoverable remote API errors are retried indefinitely at the fixed
// retry interval; there is deliberately no backoff growth and no retry
// budget. Any other error terminates the loop.
func (c *Controller) Run(ctx context.Context) error {
	session, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	c.watchLocal(ctx)

	for {
		c.log.Debug("Daemon poll loop...")
		err := session.Update(ctx, true, false)
		switch {
		case err == nil:
			if n := c.changes.take(); n > 0 {
				c.log.Infof("Synchronized after %d local change(s)", n)
				utils.SendNotification(c.log, c.cfg.Notifications(), config.AppName, "Local tree synchronized")
			}
			if err := c.sleep(ctx, c.updateInterval); err != nil {
				return nil
			}
		case remote.IsRecoverable(err):
			c.log.WithError(err).Error("Remote API error")
			if err := c.sleep(ctx, c.retryInterval); err != nil {
				return nil
			}
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		default:
			c.log.WithError(err).Error("Daemon error")
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
