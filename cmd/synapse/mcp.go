package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/synapse/synapse/internal/mcpserver"
	"github.com/synapse/synapse/internal/reconcile"
	"github.com/synapse/synapse/internal/service"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve MCP tools over stdio",
		Action: withCore(func(ctx context.Context, _ *cli.Command, core *service.Core) error {
			// Stdout carries the protocol; logs already go to stderr.
			if _, err := reconcile.Sync(ctx, core, core.Logger()); err != nil {
				core.Logger().Warn("initial sync failed", slog.String("error", err.Error()))
			}
			return mcpserver.New(core, version).ServeStdio()
		}),
	}
}
