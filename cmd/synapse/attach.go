package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/synapse/synapse/internal/models"
	"github.com/synapse/synapse/internal/service"
	"github.com/synapse/synapse/internal/ui"
)

func attachCommand() *cli.Command {
	return &cli.Command{
		Name:      "attach",
		Usage:     "Import a file as an attachment, optionally adding it to a note",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "note", Usage: "Note id to attach the file to"},
		},
		Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
			path, err := requireArg(cmd, "file")
			if err != nil {
				return err
			}
			att, reused, err := core.Attachments.ImportFile(ctx, path)
			if err != nil {
				return err
			}
			if noteID := cmd.String("note"); noteID != "" {
				existing, err := core.Notes.GetAttachments(ctx, noteID)
				if err != nil {
					return err
				}
				if !slices.ContainsFunc(existing, func(a models.Attachment) bool { return a.ID == att.ID }) {
					if err := core.Notes.AddAttachment(ctx, noteID, att.ID, int64(len(existing))); err != nil {
						return err
					}
				}
			}
			verb := "imported"
			if reused {
				verb = "reused"
			}
			fmt.Println(ui.Success(verb))
			fmt.Print(ui.FormatAttachment(*att))
			return nil
		}),
	}
}
