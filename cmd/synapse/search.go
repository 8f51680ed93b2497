package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/synapse/synapse/internal/service"
	"github.com/synapse/synapse/internal/ui"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search over notes (or blocks with --blocks)",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "blocks", Usage: "Search block contents instead of notes"},
			&cli.BoolFlag{Name: "deleted", Usage: "Include soft-deleted rows"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Max results, 0 for all"},
		},
		Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
			query := strings.Join(cmd.Args().Slice(), " ")
			opts := service.SearchOptions{
				IncludeDeleted: cmd.Bool("deleted"),
				Limit:          int(cmd.Int("limit")),
			}
			if cmd.Bool("blocks") {
				blocks, err := core.Search.Blocks(ctx, query, opts)
				if err != nil {
					return err
				}
				if len(blocks) == 0 {
					fmt.Println("No blocks found.")
					return nil
				}
				fmt.Print(ui.FormatBlockList(blocks))
				return nil
			}
			notes, err := core.Search.Notes(ctx, query, opts)
			if err != nil {
				return err
			}
			return printNotes(ctx, core, notes)
		}),
	}
}
