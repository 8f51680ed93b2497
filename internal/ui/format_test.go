package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/synapse/synapse/internal/models"
)

func init() {
	color.NoColor = true
}

func TestFormatNoteListItem(t *testing.T) {
	n := models.Note{
		ID:        "note-1",
		Title:     "Groceries",
		UpdatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		WordCount: 3,
		IsDeleted: true,
	}
	out := FormatNoteListItem(n, []models.Tag{{Name: "home"}, {Name: "todo"}})

	assert.Contains(t, out, "note-1")
	assert.Contains(t, out, "Groceries (deleted)")
	assert.Contains(t, out, "Tags: home, todo")
	assert.Contains(t, out, "3 words")
}

func TestFormatFolderTree_IndentsByDepth(t *testing.T) {
	out := FormatFolderTree([]models.Folder{
		{ID: "f1", Name: "Projects", Path: "/Projects"},
		{ID: "f2", Name: "Alpha", Path: "/Projects/Alpha"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  Projects"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "    Alpha"), lines[1])
}

func TestFormatBlockList_TruncatesToFirstLine(t *testing.T) {
	out := FormatBlockList([]models.Block{{
		ID: "block-1", NoteID: "note-1", BlockType: models.BlockCode,
		Content: "first line\nsecond line",
	}})
	assert.Contains(t, out, "code_block")
	assert.Contains(t, out, "first line")
	assert.NotContains(t, out, "second line")
}

func TestFormatAttachment(t *testing.T) {
	w, h := int64(4), int64(2)
	out := FormatAttachment(models.Attachment{
		ID: "attachment-1", FileName: "dot.png", FileType: models.FileImage,
		MimeType: "image/png", FileSize: 70, Width: &w, Height: &h,
	})
	assert.Contains(t, out, "dot.png")
	assert.Contains(t, out, "[image image/png, 70 bytes 4x2]")
}

func TestFormatTagList(t *testing.T) {
	out := FormatTagList([]models.Tag{{ID: "tag-1", Name: "work"}}, map[string]int{"tag-1": 2})
	assert.Contains(t, out, "work (2)")
}
