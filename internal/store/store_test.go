package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedNote(t *testing.T, db *DB, id, title, body string, updated time.Time) *models.Note {
	t.Helper()
	n := &models.Note{
		ID:          id,
		Title:       title,
		ContentPath: "notes/" + id + ".md",
		CreatedAt:   epoch,
		UpdatedAt:   updated,
	}
	require.NoError(t, db.CreateNote(n, body))
	return n
}

func seedBlock(t *testing.T, db *DB, id, noteID, content string, pos int64) *models.Block {
	t.Helper()
	b := &models.Block{
		ID:        id,
		NoteID:    noteID,
		BlockType: models.BlockParagraph,
		Content:   content,
		Position:  pos,
		CreatedAt: epoch,
		UpdatedAt: epoch,
	}
	require.NoError(t, db.CreateBlock(b))
	return b
}

func seedFolder(t *testing.T, db *DB, id, name string, parent *string, pos int64) *models.Folder {
	t.Helper()
	f := &models.Folder{ID: id, Name: name, ParentID: parent, Path: "/" + name, CreatedAt: epoch, UpdatedAt: epoch, Position: pos}
	require.NoError(t, db.CreateFolder(f))
	return f
}

func TestInitializeIdempotent(t *testing.T) {
	db := testDB(t)
	require.NoError(t, Initialize(db.conn))
	require.NoError(t, Initialize(db.conn))

	v, err := db.Version()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)

	for _, table := range []string{"notes", "blocks", "folders", "note_folders", "tags", "note_tags",
		"links", "block_references", "attachments", "note_attachments", "block_attachments", "notes_fts", "blocks_fts"} {
		var count int
		require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM `+table).Scan(&count), table)
	}
}

func TestOpenFileCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "synapse.db")
	db, err := Open(path)
	require.NoError(t, err)
	seedNote(t, db, "note-1", "Persisted", "body", epoch)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	n, err := db.GetNote("note-1", false)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "Persisted", n.Title)
}

func TestNoteRoundTrip(t *testing.T) {
	db := testDB(t)
	want := seedNote(t, db, "note-1", "Hello", "hello world", epoch)

	got, err := db.GetNote("note-1", false)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("note mismatch (-want +got):\n%s", diff)
	}

	missing, err := db.GetNote("note-missing", true)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNoteDuplicateIDConflict(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "A", "", epoch)
	err := db.CreateNote(&models.Note{ID: "note-1", Title: "B", ContentPath: "x", CreatedAt: epoch, UpdatedAt: epoch}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)
}

func TestSoftDeleteAndRestoreNote(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "A", "", epoch)

	require.NoError(t, db.SoftDeleteNote("note-1", epoch.Add(time.Minute)))
	n, err := db.GetNote("note-1", false)
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = db.GetNote("note-1", true)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.True(t, n.IsDeleted)
	require.NotNil(t, n.DeletedAt)
	assert.Equal(t, epoch.Add(time.Minute), *n.DeletedAt)

	require.NoError(t, db.RestoreNote("note-1"))
	n, err = db.GetNote("note-1", false)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.False(t, n.IsDeleted)
	assert.Nil(t, n.DeletedAt)
}

func TestListNotesByRecency(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-old", "Old", "", epoch)
	seedNote(t, db, "note-new", "New", "", epoch.Add(time.Hour))
	seedNote(t, db, "note-mid", "Mid", "", epoch.Add(time.Minute))

	notes, err := db.ListNotes(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-new", "note-mid", "note-old"}, noteIDs(notes))
}

func TestSearchNotesByTitle(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "Weekly Report", "", epoch)
	seedNote(t, db, "note-2", "report draft", "", epoch.Add(time.Minute))
	seedNote(t, db, "note-3", "100% done", "", epoch)
	seedNote(t, db, "note-4", "Groceries", "", epoch)

	notes, err := db.SearchNotesByTitle("REPORT", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-2", "note-1"}, noteIDs(notes))

	notes, err = db.SearchNotesByTitle("%", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-3"}, noteIDs(notes))
}

func TestUpdateNoteReindexesTitle(t *testing.T) {
	db := testDB(t)
	n := seedNote(t, db, "note-1", "Draft", "alpha body", epoch)

	n.Title = "Quarterly"
	n.UpdatedAt = epoch.Add(time.Minute)
	require.NoError(t, db.UpdateNote(n, nil))

	hits, err := db.SearchNotes("Quarterly", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-1"}, noteIDs(hits))

	body, ok, err := db.IndexedNoteBody("note-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alpha body", body)

	newBody := "beta body"
	require.NoError(t, db.UpdateNote(n, &newBody))
	hits, err = db.SearchNotes("beta", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-1"}, noteIDs(hits))
	hits, err = db.SearchNotes("alpha", false, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchNotesRespectsSoftDelete(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "Quarterly Report", "numbers", epoch)

	hits, err := db.SearchNotes("Quarterly", false, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	require.NoError(t, db.SoftDeleteNote("note-1", epoch))
	hits, err = db.SearchNotes("Quarterly", false, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = db.SearchNotes("Quarterly", true, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchNotesLimit(t *testing.T) {
	db := testDB(t)
	for i, id := range []string{"note-a", "note-b", "note-c"} {
		seedNote(t, db, id, "topic", "shared", epoch.Add(time.Duration(i)*time.Minute))
	}
	hits, err := db.SearchNotes("shared", false, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-c", "note-b"}, noteIDs(hits))
}

func TestHardDeleteNoteDropsIndex(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "Gone", "vanishing", epoch)
	_, err := db.conn.Exec(`DELETE FROM notes WHERE id = ?`, "note-1")
	require.NoError(t, err)

	_, ok, err := db.IndexedNoteBody("note-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlocksOrderAndSearch(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "N", "", epoch)
	seedBlock(t, db, "block-c", "note-1", "third", 2)
	seedBlock(t, db, "block-a", "note-1", "first", 0)
	seedBlock(t, db, "block-b1", "note-1", "tie one", 1)
	seedBlock(t, db, "block-b2", "note-1", "tie two", 1)

	blocks, err := db.BlocksByNote("note-1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"block-a", "block-b1", "block-b2", "block-c"}, blockIDs(blocks))

	hits, err := db.SearchBlocks("tie", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"block-b1", "block-b2"}, blockIDs(hits))

	b := blocks[0]
	b.Content = "rewritten tie"
	b.UpdatedAt = epoch.Add(time.Minute)
	require.NoError(t, db.UpdateBlock(&b))
	hits, err = db.SearchBlocks("first", false, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, db.SoftDeleteBlock("block-b1", epoch))
	hits, err = db.SearchBlocks("tie", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"block-a", "block-b2"}, blockIDs(hits))

	require.NoError(t, db.RestoreBlock("block-b1"))
	got, err := db.GetBlock("block-b1", false)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestBlockRequiresNote(t *testing.T) {
	db := testDB(t)
	err := db.CreateBlock(&models.Block{ID: "block-1", NoteID: "note-missing", BlockType: models.BlockQuote, CreatedAt: epoch, UpdatedAt: epoch})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "got %v", err)
}

func TestBlockHeadingTokenRoundTrip(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "N", "", epoch)
	_, err := db.conn.Exec(`INSERT INTO blocks (`+blockColumns+`) VALUES ('block-h', 'note-1', 'heading_2', '# x', 0, 0, 0, 0, NULL)`)
	require.NoError(t, err)

	b, err := db.GetBlock("block-h", false)
	require.NoError(t, err)
	assert.Equal(t, models.BlockHeading2, b.BlockType)
}

func TestFolderTreeAndCascade(t *testing.T) {
	db := testDB(t)
	root := seedFolder(t, db, "folder-root", "Root", nil, 0)
	seedFolder(t, db, "folder-b", "B", &root.ID, 1)
	seedFolder(t, db, "folder-a", "A", &root.ID, 0)
	seedNote(t, db, "note-1", "N", "", epoch)
	require.NoError(t, db.AddNoteToFolder("note-1", "folder-a", true, 0, epoch))

	roots, err := db.RootFolders()
	require.NoError(t, err)
	require.Len(t, roots, 1)

	children, err := db.ChildFolders(root.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"folder-a", "folder-b"}, []string{children[0].ID, children[1].ID})

	require.NoError(t, db.DeleteFolder("folder-a"))
	got, err := db.GetFolder("folder-a")
	require.NoError(t, err)
	assert.Nil(t, got)

	ms, err := db.FoldersForNote("note-1")
	require.NoError(t, err)
	assert.Empty(t, ms)
}

func TestTagUniqueness(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.CreateTag(&models.Tag{ID: "tag-1", Name: "go", CreatedAt: epoch}))
	err := db.CreateTag(&models.Tag{ID: "tag-2", Name: "go", CreatedAt: epoch})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)

	// Case-sensitive.
	require.NoError(t, db.CreateTag(&models.Tag{ID: "tag-3", Name: "Go", CreatedAt: epoch}))

	tags, err := db.ListTags()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "go"}, []string{tags[0].Name, tags[1].Name})
}

func TestNoteTagMembership(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "N", "", epoch)
	require.NoError(t, db.CreateTag(&models.Tag{ID: "tag-1", Name: "rust", CreatedAt: epoch}))
	require.NoError(t, db.AddTagToNote("note-1", "tag-1", epoch))

	tags, err := db.TagsForNote("note-1")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "rust", tags[0].Name)

	notes, err := db.NotesWithTag("tag-1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-1"}, noteIDs(notes))

	require.NoError(t, db.DeleteTag("tag-1"))
	tags, err = db.TagsForNote("note-1")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestPrimaryFolderExclusive(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "N", "", epoch)
	for i, id := range []string{"folder-1", "folder-2", "folder-3"} {
		seedFolder(t, db, id, id, nil, int64(i))
	}

	require.NoError(t, db.AddNoteToFolder("note-1", "folder-1", true, 0, epoch))
	require.NoError(t, db.AddNoteToFolder("note-1", "folder-2", true, 1, epoch))
	require.NoError(t, db.AddNoteToFolder("note-1", "folder-3", false, 2, epoch))
	assertSinglePrimary(t, db, "note-1", "folder-2")

	require.NoError(t, db.SetPrimaryFolder("note-1", "folder-3"))
	assertSinglePrimary(t, db, "note-1", "folder-3")

	err := db.SetPrimaryFolder("note-1", "folder-missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
	assertSinglePrimary(t, db, "note-1", "folder-3")
}

func assertSinglePrimary(t *testing.T, db *DB, noteID, want string) {
	t.Helper()
	ms, err := db.FoldersForNote(noteID)
	require.NoError(t, err)
	var primaries []string
	for _, m := range ms {
		if m.IsPrimary {
			primaries = append(primaries, m.FolderID)
		}
	}
	assert.Equal(t, []string{want}, primaries)
	assert.Equal(t, want, ms[0].FolderID, "primary sorts first")
}

func TestNotesInFolderByPosition(t *testing.T) {
	db := testDB(t)
	seedFolder(t, db, "folder-1", "F", nil, 0)
	seedNote(t, db, "note-1", "one", "", epoch)
	seedNote(t, db, "note-2", "two", "", epoch)
	require.NoError(t, db.AddNoteToFolder("note-1", "folder-1", false, 5, epoch))
	require.NoError(t, db.AddNoteToFolder("note-2", "folder-1", false, 1, epoch))

	ids, err := db.NoteIDsInFolder("folder-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"note-2", "note-1"}, ids)

	require.NoError(t, db.UpdateNoteFolderPosition("note-1", "folder-1", 0))
	notes, err := db.NotesInFolder("folder-1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-1", "note-2"}, noteIDs(notes))

	require.NoError(t, db.RemoveNoteFromFolder("note-1", "folder-1"))
	ids, err = db.NoteIDsInFolder("folder-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"note-2"}, ids)
}

func TestLinkCheckConstraint(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "A", "", epoch)
	seedNote(t, db, "note-2", "B", "", epoch)

	target := "note-2"
	text := "see next"
	require.NoError(t, db.CreateLink(&models.Link{ID: "link-1", SourceNoteID: "note-1", TargetNoteID: &target,
		LinkType: models.LinkNote, LinkText: &text, CreatedAt: epoch}))

	err := db.CreateLink(&models.Link{ID: "link-2", SourceNoteID: "note-1", LinkType: models.LinkBlockReference, CreatedAt: epoch})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "got %v", err)

	out, err := db.OutgoingLinks("note-1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "see next", *out[0].LinkText)

	in, err := db.IncomingLinks("note-2")
	require.NoError(t, err)
	assert.Len(t, in, 1)

	require.NoError(t, db.DeleteLink("link-1"))
	l, err := db.GetLink("link-1")
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestBlockLinksAndReferences(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "A", "", epoch)
	seedBlock(t, db, "block-1", "note-1", "source", 0)
	seedBlock(t, db, "block-2", "note-1", "target", 1)

	src, dst := "block-1", "block-2"
	require.NoError(t, db.CreateLink(&models.Link{ID: "link-1", SourceNoteID: "note-1", SourceBlockID: &src,
		TargetBlockID: &dst, LinkType: models.LinkBlockReference, CreatedAt: epoch}))
	from, err := db.LinksFromBlock("block-1")
	require.NoError(t, err)
	assert.Len(t, from, 1)
	to, err := db.LinksToBlock("block-2")
	require.NoError(t, err)
	assert.Len(t, to, 1)

	require.NoError(t, db.CreateBlockReference(&models.BlockReference{ID: "ref-1", SourceBlockID: src, TargetBlockID: dst, CreatedAt: epoch}))
	referencing, err := db.ReferencingBlocks("block-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"block-1"}, blockIDs(referencing))
	referenced, err := db.ReferencedBlocks("block-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"block-2"}, blockIDs(referenced))

	require.NoError(t, db.DeleteBlockReference(src, dst))
	referenced, err = db.ReferencedBlocks("block-1")
	require.NoError(t, err)
	assert.Empty(t, referenced)
}

func TestAttachmentHashUniqueAndRelations(t *testing.T) {
	db := testDB(t)
	seedNote(t, db, "note-1", "A", "", epoch)
	seedBlock(t, db, "block-1", "note-1", "x", 0)

	w, h := int64(4), int64(3)
	a := &models.Attachment{ID: "attachment-1", FileName: "pic.png", FilePath: "attachments/ab/abc.png",
		FileType: models.FileImage, MimeType: "image/png", FileSize: 10, Width: &w, Height: &h,
		Hash: "abc", CreatedAt: epoch, UpdatedAt: epoch}
	require.NoError(t, db.CreateAttachment(a))

	dup := *a
	dup.ID = "attachment-2"
	err := db.CreateAttachment(&dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)

	got, err := db.GetAttachmentByHash("abc")
	require.NoError(t, err)
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("attachment mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, db.AddAttachmentToNote("note-1", a.ID, 0, epoch))
	require.NoError(t, db.AddAttachmentToBlock("block-1", a.ID, epoch))
	na, err := db.AttachmentsForNote("note-1")
	require.NoError(t, err)
	assert.Len(t, na, 1)
	ba, err := db.AttachmentsForBlock("block-1")
	require.NoError(t, err)
	assert.Len(t, ba, 1)

	require.NoError(t, db.DeleteAttachment(a.ID))
	ids, err := db.NoteIDsWithAttachment(a.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	ids, err = db.BlockIDsWithAttachment(a.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func noteIDs(notes []models.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func blockIDs(blocks []models.Block) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.ID)
	}
	return out
}
