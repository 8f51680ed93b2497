package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/models"
	"github.com/synapse/synapse/internal/service"
	"github.com/synapse/synapse/internal/ui"
)

func noteCommand() *cli.Command {
	return &cli.Command{
		Name:  "note",
		Usage: "Manage notes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List notes, most recently updated first",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "deleted", Usage: "Include soft-deleted notes"},
					&cli.StringFlag{Name: "folder", Usage: "Only notes in this folder id"},
					&cli.StringFlag{Name: "title", Usage: "Only notes whose title contains this text"},
				},
				Action: withCore(listNotes),
			},
			{
				Name:      "show",
				Usage:     "Print a note with its body",
				ArgsUsage: "<note-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "deleted", Usage: "Allow soft-deleted notes"},
				},
				Action: withCore(showNote),
			},
			{
				Name:  "add",
				Usage: "Create a note; the body comes from --content, --file, or stdin with --file -",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true},
					&cli.StringFlag{Name: "content"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}},
				},
				Action: withCore(addNote),
			},
			{
				Name:      "edit",
				Usage:     "Change a note's title and/or body",
				ArgsUsage: "<note-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
					&cli.StringFlag{Name: "content"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}},
				},
				Action: withCore(editNote),
			},
			{
				Name:      "rm",
				Usage:     "Soft-delete a note",
				ArgsUsage: "<note-id>",
				Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
					id, err := requireArg(cmd, "note-id")
					if err != nil {
						return err
					}
					if err := core.Notes.Delete(ctx, id); err != nil {
						return err
					}
					fmt.Println(ui.Success("deleted " + id))
					return nil
				}),
			},
			{
				Name:      "restore",
				Usage:     "Restore a soft-deleted note",
				ArgsUsage: "<note-id>",
				Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
					id, err := requireArg(cmd, "note-id")
					if err != nil {
						return err
					}
					if err := core.Notes.Restore(ctx, id); err != nil {
						return err
					}
					fmt.Println(ui.Success("restored " + id))
					return nil
				}),
			},
			{
				Name:      "link",
				Usage:     "Link one note to another",
				ArgsUsage: "<source-id> <target-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "Link text"},
				},
				Action: withCore(func(ctx context.Context, cmd *cli.Command, core *service.Core) error {
					if cmd.NArg() != 2 {
						return fmt.Errorf("expected <source-id> <target-id>")
					}
					l, err := core.Links.CreateNoteLink(ctx, cmd.Args().Get(0), cmd.Args().Get(1), cmd.String("text"))
					if err != nil {
						return err
					}
					fmt.Println(ui.Success("linked " + l.ID))
					return nil
				}),
			},
			{
				Name:      "backlinks",
				Usage:     "List notes linking to a note",
				ArgsUsage: "<note-id>",
				Action:    withCore(backlinks),
			},
		},
	}
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	if cmd.NArg() < 1 || cmd.Args().First() == "" {
		return "", fmt.Errorf("missing <%s>", name)
	}
	return cmd.Args().First(), nil
}

// bodyFrom resolves --content/--file into a body. ok is false when neither
// flag was given.
func bodyFrom(cmd *cli.Command) (body string, ok bool, err error) {
	if cmd.IsSet("content") {
		return cmd.String("content"), true, nil
	}
	path := cmd.String("file")
	if path == "" {
		return "", false, nil
	}
	var data []byte
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func listNotes(ctx context.Context, cmd *cli.Command, core *service.Core) error {
	incl := cmd.Bool("deleted")
	var (
		notes []models.Note
		err   error
	)
	switch {
	case cmd.String("folder") != "":
		notes, err = core.Notes.GetByFolder(ctx, cmd.String("folder"), incl)
	case cmd.String("title") != "":
		notes, err = core.Notes.SearchByTitle(ctx, cmd.String("title"), incl)
	default:
		notes, err = core.Notes.List(ctx, incl)
	}
	if err != nil {
		return err
	}
	return printNotes(ctx, core, notes)
}

func printNotes(ctx context.Context, core *service.Core, notes []models.Note) error {
	if len(notes) == 0 {
		fmt.Println("No notes found.")
		return nil
	}
	for _, n := range notes {
		tags, err := core.Notes.GetTags(ctx, n.ID)
		if err != nil {
			return err
		}
		fmt.Print(ui.FormatNoteListItem(n, tags))
	}
	return nil
}

func showNote(ctx context.Context, cmd *cli.Command, core *service.Core) error {
	id, err := requireArg(cmd, "note-id")
	if err != nil {
		return err
	}
	n, err := core.Notes.Get(ctx, id, cmd.Bool("deleted"))
	if err != nil {
		return err
	}
	tags, err := core.Notes.GetTags(ctx, id)
	if err != nil {
		return err
	}
	fmt.Print(ui.FormatNoteHeader(n.Note, tags))
	fmt.Println(n.Content)

	atts, err := core.Notes.GetAttachments(ctx, id)
	if err != nil {
		return err
	}
	for _, a := range atts {
		fmt.Print(ui.FormatAttachment(a))
	}
	return nil
}

func addNote(ctx context.Context, cmd *cli.Command, core *service.Core) error {
	body, _, err := bodyFrom(cmd)
	if err != nil {
		return err
	}
	n, err := core.Notes.Create(ctx, cmd.String("title"), body)
	if err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("created %s (%s)", n.ID, n.ContentPath)))
	return nil
}

func editNote(ctx context.Context, cmd *cli.Command, core *service.Core) error {
	id, err := requireArg(cmd, "note-id")
	if err != nil {
		return err
	}
	var upd service.NoteUpdate
	if cmd.IsSet("title") {
		title := cmd.String("title")
		upd.Title = &title
	}
	body, ok, err := bodyFrom(cmd)
	if err != nil {
		return err
	}
	if ok {
		upd.Content = &body
	}
	n, err := core.Notes.Update(ctx, id, upd)
	if err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("updated %s (%d words)", n.ID, n.WordCount)))
	return nil
}

func backlinks(ctx context.Context, cmd *cli.Command, core *service.Core) error {
	id, err := requireArg(cmd, "note-id")
	if err != nil {
		return err
	}
	links, err := core.Links.GetIncoming(ctx, id)
	if err != nil {
		return err
	}
	var notes []models.Note
	for _, l := range links {
		n, err := core.Notes.Get(ctx, l.SourceNoteID, false)
		if errors.Is(err, apperr.ErrNotFound) {
			continue // source note is soft-deleted
		}
		if err != nil {
			return err
		}
		notes = append(notes, n.Note)
	}
	return printNotes(ctx, core, notes)
}
