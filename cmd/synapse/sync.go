package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/synapse/synapse/internal/reconcile"
	"github.com/synapse/synapse/internal/service"
	"github.com/synapse/synapse/internal/ui"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Refresh word counts and the search index from note files edited outside the app",
		Action: withCore(func(ctx context.Context, _ *cli.Command, core *service.Core) error {
			rep, err := reconcile.Sync(ctx, core, core.Logger())
			if err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("scanned %d, refreshed %d, untracked %d, missing %d",
				rep.Scanned, rep.Refreshed, rep.Untracked, rep.Missing)))
			return nil
		}),
	}
}
