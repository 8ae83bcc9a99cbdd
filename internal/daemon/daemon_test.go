package daemon

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdrive-linux/drived/internal/config"
	"github.com/gdrive-linux/drived/internal/guard"
	"github.com/gdrive-linux/drived/internal/remote"
)

type fakeSession struct {
	results      []error
	calls        int
	downloads    []bool
	interactives []bool
}

func (s *fakeSession) Update(ctx context.Context, download, interactive bool) error {
	s.downloads = append(s.downloads, download)
	s.interactives = append(s.interactives, interactive)
	if s.calls >= len(s.results) {
		return errors.New("unexpected extra sync attempt")
	}
	err := s.results[s.calls]
	s.calls++
	return err
}

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(t *testing.T) *config.Config {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	logger := quietLogger()
	cfg, err := config.Load(logger, guard.New(logger, nil))
	require.NoError(t, err)
	return cfg
}

// newTestController wires a controller whose sleeps are recorded instead
// of slept.
func newTestController(t *testing.T, dial remote.Dialer) (*Controller, *[]time.Duration) {
	c := New(testConfig(t), quietLogger(), dial)
	sleeps := &[]time.Duration{}
	c.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return c, sleeps
}

func TestRunRetriesRecoverableErrors(t *testing.T) {
	apiErr := &remote.APIError{Op: "update", Err: errors.New("server hiccup")}
	fatal := errors.New("segfault adjacent")
	session := &fakeSession{results: []error{apiErr, nil, fatal}}

	c, sleeps := newTestController(t, func(ctx context.Context) (remote.Session, error) {
		return session, nil
	})

	err := c.Run(context.Background())
	require.ErrorIs(t, err, fatal)

	// One retry sleep after the API error, one update sleep after the
	// success, then termination with no further attempt.
	assert.Equal(t, 3, session.calls)
	assert.Equal(t, []time.Duration{RetryInterval, UpdateInterval}, *sleeps)
}

func TestRunTerminatesOnUnexpectedError(t *testing.T) {
	fatal := errors.New("corrupt metadata")
	session := &fakeSession{results: []error{fatal}}

	c, sleeps := newTestController(t, func(ctx context.Context) (remote.Session, error) {
		return session, nil
	})

	err := c.Run(context.Background())
	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, session.calls)
	assert.Empty(t, *sleeps)
}

func TestRunFailsFastWhenDialFails(t *testing.T) {
	dialErr := errors.New("no stored credentials")
	session := &fakeSession{}

	c, _ := newTestController(t, func(ctx context.Context) (remote.Session, error) {
		return nil, dialErr
	})

	err := c.Run(context.Background())
	require.ErrorIs(t, err, dialErr)
	assert.Zero(t, session.calls, "no sync attempt should follow a failed dial")
}

func TestRunSyncsNonInteractiveDownload(t *testing.T) {
	session := &fakeSession{results: []error{nil}}

	c, _ := newTestController(t, func(ctx context.Context) (remote.Session, error) {
		return session, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err := c.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, session.downloads)
	assert.Equal(t, []bool{false}, session.interactives)
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	session := &fakeSession{results: []error{nil, nil, nil}}

	c, _ := newTestController(t, func(ctx context.Context) (remote.Session, error) {
		return session, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepCtx(ctx, time.Hour)
	}

	err := c.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, session.calls)
}
