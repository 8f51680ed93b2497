package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/synapse/synapse/internal"
	"github.com/synapse/synapse/internal/service"
	"github.com/synapse/synapse/internal/ui"
	pkgconfig "github.com/synapse/synapse/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOrDefault(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if dir := cmd.String("data"); dir != "" {
		cfg.Data.Dir = dir
	}
	return cfg, nil
}

// openCore opens the knowledge base for one-shot commands. Logs go to
// stderr at warn level or above so stdout stays clean for results.
func openCore(cmd *cli.Command) (*service.Core, io.Closer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	appCfg := cfg.App
	if appCfg.LogLevel < slog.LevelWarn {
		appCfg.LogLevel = slog.LevelWarn
	}
	logger, logCloser := internal.NewLogger(appCfg, os.Stderr)

	core, err := service.Open(cfg.SQLite.Path, cfg.Data.Dir, service.WithLogger(logger))
	if err != nil {
		logCloser.Close()
		return nil, nil, err
	}
	return core, closerFunc(func() error {
		err := core.Close()
		logCloser.Close()
		return err
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// withCore wraps an action that needs an open core.
func withCore(fn func(ctx context.Context, cmd *cli.Command, core *service.Core) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		core, closer, err := openCore(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()
		return fn(ctx, cmd, core)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "synapse",
		Usage:   "Local-first knowledge base: notes, blocks, folders, tags, links and attachments over SQLite and Markdown files",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Override the data directory",
				Sources: cli.EnvVars("SYNAPSE_DATA_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the REST API and file watcher",
				Action: serve,
			},
			mcpCommand(),
			noteCommand(),
			tagCommand(),
			folderCommand(),
			searchCommand(),
			attachCommand(),
			syncCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}
