package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/tunecord/internal/catalog"
	"github.com/genricoloni/tunecord/internal/config"
	"github.com/genricoloni/tunecord/internal/domain"
	"github.com/genricoloni/tunecord/internal/engine"
	"github.com/genricoloni/tunecord/internal/monitor"
	"github.com/genricoloni/tunecord/internal/presence"
	"github.com/genricoloni/tunecord/internal/shell"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var version = "dev"

// AppOptions is the dependency graph of the daemon
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		config.DefaultSource,
		newLogger,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.ConfigProvider))),
		fx.Annotate(monitor.NewMprisProbe, fx.As(fx.Self()), fx.As(new(domain.Probe))),
		fx.Annotate(catalog.NewYandexSearcher, fx.As(new(domain.Searcher))),
		fx.Annotate(catalog.NewCoverCache, fx.As(new(domain.CoverResolver))),
		fx.Annotate(presence.NewDiscordSink, fx.As(new(domain.PresenceSink))),
		fx.Annotate(engine.NewEngine, fx.As(fx.Self()), fx.As(new(domain.StatusSource))),
		shell.NewShell,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

func main() {
	cmd := &cli.Command{
		Name:    "tunecord",
		Usage:   "Mirror the currently playing track into Discord Rich Presence",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Sources: cli.EnvVars("TUNECORD_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("TUNECORD_LOG_LEVEL"),
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:      "cover",
				Usage:     "Look up the cover a track would be shown with",
				ArgsUsage: "<artist> <title>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "artist"},
					&cli.StringArg{Name: "title"},
				},
				Action: lookupCover,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sourceFromFlags overrides the default source with command line values
func sourceFromFlags(cmd *cli.Command) config.Source {
	src := config.DefaultSource()
	if path := cmd.String("config"); path != "" {
		src.Path = path
	}
	if level := cmd.String("log-level"); level != "" {
		src.LogLevel = level
	}
	return src
}

// run starts the daemon and blocks until SIGINT or SIGTERM
func run(ctx context.Context, cmd *cli.Command) error {
	app := fx.New(
		AppOptions,
		fx.Replace(sourceFromFlags(cmd)),
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	// Wait for interrupt signal
	<-ctx.Done()

	// Stop the application gracefully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop: %w", err)
	}
	return nil
}

// lookupCover runs one catalog search outside the daemon, for checking tokens and sizes
func lookupCover(ctx context.Context, cmd *cli.Command) error {
	artist, title := cmd.StringArg("artist"), cmd.StringArg("title")
	if artist == "" || title == "" {
		return fmt.Errorf("usage: %s cover <artist> <title>", cmd.Root().Name)
	}

	logger, err := newLogger(sourceFromFlags(cmd.Root()))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.NewAppConfig(logger, sourceFromFlags(cmd.Root()))
	covers := catalog.NewCoverCache(logger, cfg, catalog.NewYandexSearcher(logger, cfg))

	url, ok := covers.ResolveCover(ctx, title, artist)
	if !ok {
		return fmt.Errorf("no cover found for %s - %s", artist, title)
	}
	fmt.Fprintln(cmd.Root().Writer, url)
	return nil
}

// newLogger creates a new zap logger instance
func newLogger(src config.Source) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(src.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", src.LogLevel, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// registerHooks sets up application lifecycle hooks.
// Stop hooks run in reverse: the shell stops first, the probe is closed last.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	probe *monitor.MprisProbe,
	eng *engine.Engine,
	sh *shell.Shell,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("tunecord daemon started", zap.String("version", version))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			if err := probe.Close(); err != nil {
				logger.Warn("Failed to close session bus", zap.Error(err))
			}
			_ = logger.Sync()
			return nil
		},
	})
	lc.Append(fx.Hook{
		OnStart: eng.Start,
		OnStop:  eng.Stop,
	})
	lc.Append(fx.Hook{
		OnStart: sh.Start,
		OnStop:  sh.Stop,
	})
}
