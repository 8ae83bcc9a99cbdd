package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	godaemon "github.com/sevlyar/go-daemon"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/gdrive-linux/drived/internal/config"
	"github.com/gdrive-linux/drived/internal/daemon"
	"github.com/gdrive-linux/drived/internal/guard"
	"github.com/gdrive-linux/drived/internal/remote"
)

// Set at build time: go build -ldflags "-X main.version=1.2.3"
var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "drived",
		Usage:   "Google Drive synchronization daemon",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "logging level: NONE, DEBUG, INFO, WARNING, ERROR, CRITICAL, FATAL",
				Sources: cli.EnvVars("DRIVED_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "daemonize",
				Aliases: []string{"d"},
				Usage:   "detach and run in the background",
				Sources: cli.EnvVars("DRIVED_DAEMONIZE"),
			},
			&cli.DurationFlag{
				Name:    "update-interval",
				Usage:   "pause between successful sync attempts",
				Sources: cli.EnvVars("DRIVED_UPDATE_INTERVAL"),
			},
			&cli.DurationFlag{
				Name:    "retry-interval",
				Usage:   "pause after a recoverable remote error",
				Sources: cli.EnvVars("DRIVED_RETRY_INTERVAL"),
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := log.New()

	// A detached daemon has nobody to answer overwrite prompts, so it
	// refuses them; in the foreground the user is asked on the terminal.
	decide := guard.Decider(guard.Terminal)
	if cmd.Bool("daemonize") {
		decide = guard.AlwaysDeny
	}

	cfg, err := config.Load(logger, guard.New(logger, decide))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	level, enabled := cfg.LogLevel()
	if cmd.IsSet("log-level") {
		level, enabled = config.ParseLevel(cmd.String("log-level"))
	}
	if enabled {
		logger.SetLevel(level)
	} else {
		logger.SetOutput(io.Discard)
	}

	if _, err := cfg.EnsureLocalRoot(); err != nil {
		logger.Fatalf("Failed to prepare local storage tree: %v", err)
	}

	if cmd.Bool("daemonize") {
		daemonCtx := &godaemon.Context{
			PidFileName: cfg.PidFile(),
			PidFilePerm: 0644,
			LogFileName: cfg.LogFile(),
			LogFilePerm: 0640,
			WorkDir:     "/",
			Umask:       027,
			Args:        []string{"[drived]"},
		}

		d, err := daemonCtx.Reborn()
		if err != nil {
			logger.Fatalf("Unable to run: %s", err)
		}
		if d != nil {
			return nil // Parent process exits
		}
		defer daemonCtx.Release()
		logger.Info("Daemon started")
	} else {
		logger.Info("Running in foreground (not daemonized)")
	}

	// Signal handling for graceful shutdown
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Infof("Received signal: %s, shutting down...", sig)
		cancel()
	}()

	ctrl := daemon.New(cfg, logger, func(ctx context.Context) (remote.Session, error) {
		return remote.Dial(ctx, cfg, logger)
	})
	ctrl.SetIntervals(cmd.Duration("update-interval"), cmd.Duration("retry-interval"))

	if err := ctrl.Run(runCtx); err != nil {
		logger.Errorf("Daemon failed: %v", err)
		return err
	}

	logger.Info("Daemon exiting...")
	return nil
}
