// Package ui formats records for terminal output.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/synapse/synapse/internal/models"
)

const timeLayout = "2006-01-02 15:04"

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

// FormatNoteListItem renders one line pair per note: id and title, then
// tags and update time.
func FormatNoteListItem(note models.Note, tags []models.Tag) string {
	var sb strings.Builder

	title := bold(note.Title)
	if note.IsDeleted {
		title += " " + red("(deleted)")
	}
	fmt.Fprintf(&sb, "  %s  %s\n", faint(note.ID), title)

	if len(tags) > 0 {
		fmt.Fprintf(&sb, "      %s %s\n", faint("Tags:"), cyan(tagNames(tags)))
	}
	fmt.Fprintf(&sb, "      %s %s  %s\n",
		faint("Updated:"), faint(note.UpdatedAt.Local().Format(timeLayout)),
		faint(fmt.Sprintf("%d words", note.WordCount)))

	return sb.String()
}

// FormatNoteHeader renders the metadata block shown above a note body.
func FormatNoteHeader(note models.Note, tags []models.Tag) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", bold(note.Title))
	fmt.Fprintf(&sb, "%s %s\n", faint("ID:"), faint(note.ID))
	fmt.Fprintf(&sb, "%s %s\n", faint("Created:"), faint(note.CreatedAt.Local().Format(timeLayout)))
	fmt.Fprintf(&sb, "%s %s\n", faint("Updated:"), faint(note.UpdatedAt.Local().Format(timeLayout)))
	if len(tags) > 0 {
		fmt.Fprintf(&sb, "%s %s\n", faint("Tags:"), cyan(tagNames(tags)))
	}

	sb.WriteString(Separator())
	return sb.String()
}

// FormatTagList renders tags with the number of live notes carrying each.
func FormatTagList(tags []models.Tag, counts map[string]int) string {
	var sb strings.Builder
	for _, t := range tags {
		fmt.Fprintf(&sb, "  %s %s %s\n", cyan(t.Name), faint(fmt.Sprintf("(%d)", counts[t.ID])), faint(t.ID))
	}
	return sb.String()
}

// FormatFolderTree renders folders by path, indented by depth.
func FormatFolderTree(folders []models.Folder) string {
	var sb strings.Builder
	for _, f := range folders {
		depth := strings.Count(f.Path, "/") - 1
		if depth < 0 {
			depth = 0
		}
		fmt.Fprintf(&sb, "%s%s  %s\n", strings.Repeat("  ", depth+1), bold(f.Name), faint(f.ID))
	}
	return sb.String()
}

// FormatBlockList renders search hits over blocks.
func FormatBlockList(blocks []models.Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		fmt.Fprintf(&sb, "  %s  %s %s\n", faint(b.ID), cyan(string(b.BlockType)), faint("in "+b.NoteID))
		fmt.Fprintf(&sb, "      %s\n", firstLine(b.Content))
	}
	return sb.String()
}

// FormatAttachment renders one attachment row.
func FormatAttachment(a models.Attachment) string {
	dims := ""
	if a.Width != nil && a.Height != nil {
		dims = fmt.Sprintf(" %dx%d", *a.Width, *a.Height)
	}
	return fmt.Sprintf("  %s  %s %s\n", faint(a.ID), a.FileName,
		faint(fmt.Sprintf("[%s %s, %d bytes%s]", a.FileType, a.MimeType, a.FileSize, dims)))
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func tagNames(tags []models.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	const width = 80
	if r := []rune(line); len(r) > width {
		return string(r[:width]) + "…"
	}
	return line
}
