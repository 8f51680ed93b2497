package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/synapse/synapse/internal/models"
	"github.com/synapse/synapse/internal/service"
	"github.com/synapse/synapse/internal/testutil"
)

// testEnv sets up an in-memory core and router. An empty token means
// disabled auth mode; a non-empty one enables token mode.
func testEnv(t *testing.T, authToken string) (*service.Core, http.Handler) {
	t.Helper()
	core := testutil.Core(t)
	return core, NewRouter(core, authToken != "", authToken)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func createNote(t *testing.T, router http.Handler, title, content string) models.Note {
	t.Helper()
	w := do(t, router, http.MethodPost, "/notes", CreateNoteRequest{Title: title, Content: content})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	return decode[models.Note](t, w)
}

func TestCreateAndGetNote(t *testing.T) {
	_, router := testEnv(t, "")

	n := createNote(t, router, "Hello", "hello brave new world")
	if n.WordCount != 4 {
		t.Errorf("word_count = %d, want 4", n.WordCount)
	}

	w := do(t, router, http.MethodGet, "/notes/"+n.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	got := decode[models.NoteWithContent](t, w)
	if got.Title != "Hello" {
		t.Errorf("title = %q, want Hello", got.Title)
	}
	if got.Content != "hello brave new world" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestCreateNote_BlankTitle(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/notes", CreateNoteRequest{Title: "  ", Content: "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank title = %d, want 400", w.Code)
	}
}

func TestCreateNote_InvalidJSON(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json = %d, want 400", w.Code)
	}
}

func TestUpdateNote(t *testing.T) {
	_, router := testEnv(t, "")
	n := createNote(t, router, "Draft", "one")

	content := "one two three"
	w := do(t, router, http.MethodPatch, "/notes/"+n.ID, UpdateNoteRequest{Content: &content})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", w.Code, w.Body.String())
	}
	got := decode[models.Note](t, w)
	if got.Title != "Draft" || got.WordCount != 3 {
		t.Errorf("updated = %+v", got)
	}
	if got.UpdatedAt.Before(n.UpdatedAt) {
		t.Errorf("updated_at moved backwards: %v -> %v", n.UpdatedAt, got.UpdatedAt)
	}
}

func TestUpdateNote_ConcurrentFieldsBothLand(t *testing.T) {
	_, router := testEnv(t, "")

	patch := func(id string, body UpdateNoteRequest) int {
		b, _ := json.Marshal(body)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/notes/"+id, bytes.NewReader(b)))
		return w.Code
	}

	for i := 0; i < 50; i++ {
		n := createNote(t, router, "old", "stale")
		title, content := "new", "fresh words here"

		var wg sync.WaitGroup
		codes := make([]int, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			codes[0] = patch(n.ID, UpdateNoteRequest{Title: &title})
		}()
		go func() {
			defer wg.Done()
			codes[1] = patch(n.ID, UpdateNoteRequest{Content: &content})
		}()
		wg.Wait()
		if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
			t.Fatalf("round %d: statuses = %v", i, codes)
		}

		got := decode[models.NoteWithContent](t, do(t, router, http.MethodGet, "/notes/"+n.ID, nil))
		if got.Title != title || got.Content != content || got.WordCount != 3 {
			t.Fatalf("round %d: lost update: title=%q content=%q words=%d", i, got.Title, got.Content, got.WordCount)
		}
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	title := "x"
	w := do(t, router, http.MethodPatch, "/notes/note-missing", UpdateNoteRequest{Title: &title})
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing = %d, want 404", w.Code)
	}
}

func TestDeleteAndRestoreNote(t *testing.T) {
	_, router := testEnv(t, "")
	n := createNote(t, router, "Temp", "body")

	if w := do(t, router, http.MethodDelete, "/notes/"+n.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/notes/"+n.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/notes/"+n.ID+"?include_deleted=true", nil); w.Code != http.StatusOK {
		t.Errorf("get deleted with include_deleted = %d, want 200", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/notes/"+n.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/notes/"+n.ID+"/restore", nil); w.Code != http.StatusNoContent {
		t.Fatalf("restore = %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/notes/"+n.ID, nil); w.Code != http.StatusOK {
		t.Errorf("get after restore = %d, want 200", w.Code)
	}
}

func TestListNotes(t *testing.T) {
	_, router := testEnv(t, "")
	createNote(t, router, "Alpha", "a")
	createNote(t, router, "Beta", "b")

	w := do(t, router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	resp := decode[NoteListResponse](t, w)
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}

	w = do(t, router, http.MethodGet, "/notes?q=alp", nil)
	resp = decode[NoteListResponse](t, w)
	if resp.Total != 1 || resp.Notes[0].Title != "Alpha" {
		t.Errorf("title filter = %+v", resp.Notes)
	}
}

func TestListNotes_EmptyIsArray(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/notes", nil)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"notes":[]`)) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	n := createNote(t, router, "Quarterly Report", "revenue grew")
	createNote(t, router, "Other", "nothing")

	w := do(t, router, http.MethodGet, "/search?q=Quarterly", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode[SearchResponse](t, w)
	if len(resp.Notes) != 1 || resp.Notes[0].ID != n.ID {
		t.Fatalf("hits = %+v", resp.Notes)
	}

	do(t, router, http.MethodDelete, "/notes/"+n.ID, nil)
	resp = decode[SearchResponse](t, do(t, router, http.MethodGet, "/search?q=Quarterly", nil))
	if len(resp.Notes) != 0 {
		t.Errorf("deleted note still found: %+v", resp.Notes)
	}
	resp = decode[SearchResponse](t, do(t, router, http.MethodGet, "/search?q=Quarterly&include_deleted=true", nil))
	if len(resp.Notes) != 1 {
		t.Errorf("include_deleted hits = %d, want 1", len(resp.Notes))
	}
}

func TestSearchBlocks(t *testing.T) {
	_, router := testEnv(t, "")
	n := createNote(t, router, "Host", "")

	w := do(t, router, http.MethodPost, "/blocks", CreateBlockRequest{
		NoteID: n.ID, BlockType: models.BlockParagraph, Content: "lighthouse keeper",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create block = %d, body = %s", w.Code, w.Body.String())
	}

	resp := decode[SearchResponse](t, do(t, router, http.MethodGet, "/search?q=lighthouse&scope=blocks", nil))
	if len(resp.Blocks) != 1 {
		t.Errorf("block hits = %d, want 1", len(resp.Blocks))
	}
}

func TestSearchMissingQuery(t *testing.T) {
	_, router := testEnv(t, "")

	if w := do(t, router, http.MethodGet, "/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("no q = %d, want 400", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/search?q=x&scope=tags", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad scope = %d, want 400", w.Code)
	}
}

func TestTags(t *testing.T) {
	_, router := testEnv(t, "")
	n := createNote(t, router, "Tagged", "x")

	w := do(t, router, http.MethodPost, "/tags", CreateTagRequest{Name: "work"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create tag = %d", w.Code)
	}
	tag := decode[models.Tag](t, w)

	if w := do(t, router, http.MethodPost, "/tags", CreateTagRequest{Name: "work"}); w.Code != http.StatusConflict {
		t.Errorf("duplicate tag = %d, want 409", w.Code)
	}
	if w := do(t, router, http.MethodPut, "/notes/"+n.ID+"/tags/"+tag.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("tag note = %d, body = %s", w.Code, w.Body.String())
	}

	notes := decode[NoteListResponse](t, do(t, router, http.MethodGet, "/tags/"+tag.ID+"/notes", nil))
	if notes.Total != 1 || notes.Notes[0].ID != n.ID {
		t.Errorf("tag notes = %+v", notes.Notes)
	}

	byName := decode[models.Tag](t, do(t, router, http.MethodGet, "/tags?name=work", nil))
	if byName.ID != tag.ID {
		t.Errorf("by name = %+v", byName)
	}

	if w := do(t, router, http.MethodDelete, "/tags/"+tag.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete tag = %d", w.Code)
	}
	tags := decode[map[string][]models.Tag](t, do(t, router, http.MethodGet, "/notes/"+n.ID+"/tags", nil))
	if len(tags["tags"]) != 0 {
		t.Errorf("note tags after delete = %+v", tags["tags"])
	}
}

func TestFolders(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/folders", CreateFolderRequest{Name: "Projects"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create root = %d", w.Code)
	}
	root := decode[models.Folder](t, w)
	if root.Path != "/Projects" {
		t.Errorf("root path = %q", root.Path)
	}

	child := decode[models.Folder](t, do(t, router, http.MethodPost, "/folders", CreateFolderRequest{Name: "Alpha", ParentID: &root.ID}))
	if child.Path != "/Projects/Alpha" {
		t.Errorf("child path = %q", child.Path)
	}

	missing := "folder-missing"
	if w := do(t, router, http.MethodPost, "/folders", CreateFolderRequest{Name: "X", ParentID: &missing}); w.Code != http.StatusNotFound {
		t.Errorf("missing parent = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/folders/"+root.ID, nil); w.Code != http.StatusBadRequest {
		t.Errorf("delete with children = %d, want 400", w.Code)
	}

	children := decode[map[string][]models.Folder](t, do(t, router, http.MethodGet, "/folders/"+root.ID+"/children", nil))
	if len(children["folders"]) != 1 {
		t.Errorf("children = %+v", children["folders"])
	}

	if w := do(t, router, http.MethodDelete, "/folders/"+child.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete leaf = %d", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/folders/"+root.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete empty root = %d", w.Code)
	}
}

func TestPrimaryFolder(t *testing.T) {
	_, router := testEnv(t, "")
	n := createNote(t, router, "Placed", "x")
	a := decode[models.Folder](t, do(t, router, http.MethodPost, "/folders", CreateFolderRequest{Name: "A"}))
	b := decode[models.Folder](t, do(t, router, http.MethodPost, "/folders", CreateFolderRequest{Name: "B"}))

	do(t, router, http.MethodPut, "/notes/"+n.ID+"/folders/"+a.ID, FolderMembershipRequest{IsPrimary: true})
	do(t, router, http.MethodPut, "/notes/"+n.ID+"/folders/"+b.ID, FolderMembershipRequest{Position: 1})
	if w := do(t, router, http.MethodPost, "/notes/"+n.ID+"/folders/"+b.ID+"/primary", nil); w.Code != http.StatusNoContent {
		t.Fatalf("set primary = %d", w.Code)
	}

	ms := decode[map[string][]models.FolderMembership](t, do(t, router, http.MethodGet, "/notes/"+n.ID+"/folders", nil))["folders"]
	primaries := 0
	for _, m := range ms {
		if m.IsPrimary {
			primaries++
			if m.FolderID != b.ID {
				t.Errorf("primary = %s, want %s", m.FolderID, b.ID)
			}
		}
	}
	if len(ms) != 2 || primaries != 1 {
		t.Errorf("memberships = %+v", ms)
	}
}

func TestLinksAndBacklinks(t *testing.T) {
	_, router := testEnv(t, "")
	a := createNote(t, router, "Intro", "hello world")
	b := createNote(t, router, "Next", "")

	w := do(t, router, http.MethodPost, "/links", CreateLinkRequest{
		LinkType: models.LinkNote, SourceNoteID: a.ID, TargetNoteID: b.ID, LinkText: "see next",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create link = %d, body = %s", w.Code, w.Body.String())
	}

	out := decode[map[string][]models.Link](t, do(t, router, http.MethodGet, "/notes/"+a.ID+"/links", nil))["links"]
	if len(out) != 1 || *out[0].TargetNoteID != b.ID || *out[0].LinkText != "see next" {
		t.Fatalf("outgoing = %+v", out)
	}
	in := decode[map[string][]models.Link](t, do(t, router, http.MethodGet, "/notes/"+b.ID+"/backlinks", nil))["links"]
	if len(in) != 1 || in[0].SourceNoteID != a.ID {
		t.Errorf("incoming = %+v", in)
	}

	w = do(t, router, http.MethodPost, "/links", CreateLinkRequest{
		LinkType: models.LinkNote, SourceNoteID: a.ID, TargetNoteID: "note-missing",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing target = %d, want 404", w.Code)
	}
	w = do(t, router, http.MethodPost, "/links", CreateLinkRequest{LinkType: "database_relation", SourceNoteID: a.ID})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unsupported type = %d, want 400", w.Code)
	}
}

func TestBlocksAndReferences(t *testing.T) {
	_, router := testEnv(t, "")
	n := createNote(t, router, "Doc", "")

	mk := func(content string, pos int64) models.Block {
		t.Helper()
		w := do(t, router, http.MethodPost, "/blocks", CreateBlockRequest{
			NoteID: n.ID, BlockType: models.BlockParagraph, Content: content, Position: pos,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create block = %d, body = %s", w.Code, w.Body.String())
		}
		return decode[models.Block](t, w)
	}
	b1 := mk("first", 1)
	b2 := mk("second", 0)

	blocks := decode[map[string][]models.Block](t, do(t, router, http.MethodGet, "/notes/"+n.ID+"/blocks", nil))["blocks"]
	if len(blocks) != 2 || blocks[0].ID != b2.ID {
		t.Errorf("blocks order = %+v", blocks)
	}

	w := do(t, router, http.MethodPost, "/blocks", CreateBlockRequest{NoteID: n.ID, BlockType: "sidebar"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad block type = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodPost, "/blocks/"+b1.ID+"/references", CreateReferenceRequest{TargetBlockID: b2.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create reference = %d, body = %s", w.Code, w.Body.String())
	}
	refs := decode[map[string][]models.Block](t, do(t, router, http.MethodGet, "/blocks/"+b2.ID+"/referencing", nil))["blocks"]
	if len(refs) != 1 || refs[0].ID != b1.ID {
		t.Errorf("referencing = %+v", refs)
	}

	heading := models.BlockHeading2
	w = do(t, router, http.MethodPatch, "/blocks/"+b1.ID, UpdateBlockRequest{BlockType: &heading})
	if w.Code != http.StatusOK {
		t.Fatalf("update block = %d", w.Code)
	}
	if got := decode[models.Block](t, w); got.BlockType != models.BlockHeading2 {
		t.Errorf("block type = %q", got.BlockType)
	}

	if w := do(t, router, http.MethodDelete, "/blocks/"+b1.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete block = %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/blocks/"+b1.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("get deleted block = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/blocks/"+b1.ID+"/restore", nil); w.Code != http.StatusNoContent {
		t.Errorf("restore block = %d", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	body, _ := json.Marshal(CreateNoteRequest{Title: "auth", Content: "test"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("authed create = %d, want 201", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	if w := do(t, router, http.MethodGet, "/notes", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	if w := do(t, router, http.MethodGet, "/notes", nil); w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

// Attachment tests.

func uploadFile(t *testing.T, router http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.Copy(part, bytes.NewReader(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadAndServeAttachment(t *testing.T) {
	core, router := testEnv(t, "")
	payload := []byte("%PDF-1.4\n%fake pdf body\n")

	w := uploadFile(t, router, "report.pdf", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode[AttachmentUploadResponse](t, w)
	if resp.Reused || resp.Attachment.FileType != models.FileDocument {
		t.Errorf("upload = %+v", resp)
	}
	if ok, _ := core.Files().Exists(resp.Attachment.FilePath); !ok {
		t.Errorf("payload missing at %s", resp.Attachment.FilePath)
	}

	// Same bytes under another name resolve to the same row.
	w = uploadFile(t, router, "copy.pdf", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("re-upload = %d", w.Code)
	}
	again := decode[AttachmentUploadResponse](t, w)
	if !again.Reused || again.Attachment.ID != resp.Attachment.ID {
		t.Errorf("re-upload = %+v", again)
	}

	w = do(t, router, http.MethodGet, resp.URL, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("content = %d", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), payload) {
		t.Errorf("content mismatch")
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
}

func TestAttachToNoteAndDelete(t *testing.T) {
	_, router := testEnv(t, "")
	n := createNote(t, router, "With file", "")
	att := decode[AttachmentUploadResponse](t, uploadFile(t, router, "a.txt", []byte("plain text"))).Attachment

	if w := do(t, router, http.MethodPut, "/notes/"+n.ID+"/attachments/"+att.ID, PositionRequest{}); w.Code != http.StatusNoContent {
		t.Fatalf("attach = %d, body = %s", w.Code, w.Body.String())
	}
	got := decode[map[string][]models.Attachment](t, do(t, router, http.MethodGet, "/notes/"+n.ID+"/attachments", nil))["attachments"]
	if len(got) != 1 || got[0].ID != att.ID {
		t.Fatalf("note attachments = %+v", got)
	}

	if w := do(t, router, http.MethodDelete, "/attachments/"+att.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete attachment = %d", w.Code)
	}
	got = decode[map[string][]models.Attachment](t, do(t, router, http.MethodGet, "/notes/"+n.ID+"/attachments", nil))["attachments"]
	if len(got) != 0 {
		t.Errorf("attachments after delete = %+v", got)
	}
	if w := do(t, router, http.MethodGet, "/attachments/"+att.ID+"/content", nil); w.Code != http.StatusNotFound {
		t.Errorf("content after delete = %d, want 404", w.Code)
	}
}

func TestUploadAttachment_AuthProtected(t *testing.T) {
	_, router := testEnv(t, "secret")

	if w := uploadFile(t, router, "a.txt", []byte("data")); w.Code != http.StatusUnauthorized {
		t.Errorf("upload no auth = %d, want 401", w.Code)
	}
}

func TestUploadAttachment_MissingFileField(t *testing.T) {
	_, router := testEnv(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("wrong", "data")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing field = %d, want 400", w.Code)
	}
}
