package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/service"
	"github.com/synapse/synapse/internal/ui"
)

func tagCommand() *cli.Command {
	return &cli.Command{
		Name:  "tag",
		Usage: "Manage tags",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tags with note counts",
				Action: withCore(func(ctx context.Context, _ *cli.Command, core *service.Core) error {
					tags, err := core.Tags.List(ctx)
					if err != nil {
						return err
					}
					counts := make(map[string]int, len(tags))
					for _, t := range tags {
						notes, err := core.Tags.GetNotes(ctx, t.ID)
						if err != nil {
							return err
						}
						counts[t.ID] = len(notes)
					}
					fmt.Print(ui.FormatTagList(tags, counts))
					return nil
				}),
			},
			{
				Name:      "add",
				Usage:     "Tag a note, creating the tag if needed",
				ArgsUsage: "<note-id> <tag>",
				Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
					if cmd.NArg() != 2 {
						return fmt.Errorf("expected <note-id> <tag>")
					}
					noteID, name := cmd.Args().Get(0), cmd.Args().Get(1)
					tag, err := core.Tags.GetByName(ctx, name)
					if errors.Is(err, apperr.ErrNotFound) {
						tag, err = core.Tags.Create(ctx, name)
					}
					if err != nil {
						return err
					}
					if err := core.Notes.AddTag(ctx, noteID, tag.ID); err != nil {
						return err
					}
					fmt.Println(ui.Success(fmt.Sprintf("tagged %s with %s", noteID, name)))
					return nil
				}),
			},
			{
				Name:      "untag",
				Usage:     "Remove a tag from a note",
				ArgsUsage: "<note-id> <tag>",
				Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
					if cmd.NArg() != 2 {
						return fmt.Errorf("expected <note-id> <tag>")
					}
					noteID, name := cmd.Args().Get(0), cmd.Args().Get(1)
					tag, err := core.Tags.GetByName(ctx, name)
					if err != nil {
						return err
					}
					if err := core.Notes.RemoveTag(ctx, noteID, tag.ID); err != nil {
						return err
					}
					fmt.Println(ui.Success(fmt.Sprintf("removed %s from %s", name, noteID)))
					return nil
				}),
			},
			{
				Name:      "rm",
				Usage:     "Delete a tag everywhere",
				ArgsUsage: "<tag>",
				Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
					name, err := requireArg(cmd, "tag")
					if err != nil {
						return err
					}
					tag, err := core.Tags.GetByName(ctx, name)
					if err != nil {
						return err
					}
					if err := core.Tags.Delete(ctx, tag.ID); err != nil {
						return err
					}
					fmt.Println(ui.Success("deleted tag " + name))
					return nil
				}),
			},
		},
	}
}

func folderCommand() *cli.Command {
	return &cli.Command{
		Name:  "folder",
		Usage: "Manage folders",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the folder tree",
				Action: withCore(func(ctx context.Context, _ *cli.Command, core *service.Core) error {
					folders, err := core.Folders.List(ctx)
					if err != nil {
						return err
					}
					fmt.Print(ui.FormatFolderTree(folders))
					return nil
				}),
			},
			{
				Name:      "add",
				Usage:     "Create a folder",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "parent", Usage: "Parent folder id"},
				},
				Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
					name, err := requireArg(cmd, "name")
					if err != nil {
						return err
					}
					var parent *string
					if cmd.IsSet("parent") {
						p := cmd.String("parent")
						parent = &p
					}
					f, err := core.Folders.Create(ctx, name, parent)
					if err != nil {
						return err
					}
					fmt.Println(ui.Success(fmt.Sprintf("created %s %s", f.ID, f.Path)))
					return nil
				}),
			},
			{
				Name:      "rm",
				Usage:     "Delete an empty folder",
				ArgsUsage: "<folder-id>",
				Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
					id, err := requireArg(cmd, "folder-id")
					if err != nil {
						return err
					}
					if err := core.Folders.Delete(ctx, id); err != nil {
						return err
					}
					fmt.Println(ui.Success("deleted folder " + id))
					return nil
				}),
			},
			{
				Name:      "file",
				Usage:     "Put a note in a folder",
				ArgsUsage: "<note-id> <folder-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "primary", Usage: "Make this the note's primary folder"},
					&cli.IntFlag{Name: "position"},
				},
				Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
					if cmd.NArg() != 2 {
						return fmt.Errorf("expected <note-id> <folder-id>")
					}
					noteID, folderID := cmd.Args().Get(0), cmd.Args().Get(1)
					if err := core.Notes.AddToFolder(ctx, noteID, folderID, cmd.Bool("primary"), int64(cmd.Int("position"))); err != nil {
						return err
					}
					fmt.Println(ui.Success(fmt.Sprintf("filed %s in %s", noteID, folderID)))
					return nil
				}),
			},
		},
	}
}
