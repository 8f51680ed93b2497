// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes knowledge base tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/service"
)

const (
	guideURI     = "synapse://guide"
	defaultLimit = 20
)

// Server wraps the MCP server with knowledge base tools.
type Server struct {
	mcp  *server.MCPServer
	core *service.Core
}

// New creates a new MCP server with all tools registered.
func New(core *service.Core, version string) *Server {
	s := &Server{core: core}

	s.mcp = server.NewMCPServer(
		"Synapse",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through note titles and bodies, most recently updated first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Full-text query in SQLite match syntax")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 20, 0 for all)")),
		mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted notes")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("search_blocks",
		mcp.WithDescription("Full-text search through block contents, in note order."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Full-text query in SQLite match syntax")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 20, 0 for all)")),
	), s.searchBlocks)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note's metadata and full body."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id (note-<uuid>)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. Read the guide via get_guide or the "+guideURI+" resource first."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Non-blank title, at most 500 characters")),
		mcp.WithString("content", mcp.Description("Markdown body")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Change a note's title and/or body. Omitted fields are left as they are."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New Markdown body, replacing the old one")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, most recently updated first, optionally only those in one folder."),
		mcp.WithString("folder_id", mcp.Description("Optional folder id")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List every folder ordered by path."),
	), s.listFolders)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List every tag ordered by name."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("tag_note",
		mcp.WithDescription("Attach a tag to a note by tag name, creating the tag if it does not exist."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag name (case-sensitive)")),
	), s.tagNote)

	s.mcp.AddTool(mcp.NewTool("link_notes",
		mcp.WithDescription("Create a note_link from one note to another."),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("Linking note id")),
		mcp.WithString("target_id", mcp.Required(), mcp.Description("Linked note id")),
		mcp.WithString("text", mcp.Description("Optional link text")),
	), s.linkNotes)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all links pointing at the specified note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("import_attachment",
		mcp.WithDescription("Import a file from an http(s) URL or a base64 data URI. "+
			"Identical content returns the existing attachment. Optionally attaches it to a note."),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or data:<mime>;base64,<data>")),
		mcp.WithString("filename", mcp.Description("File name to record; derived from the URL when omitted")),
		mcp.WithString("note_id", mcp.Description("Note to attach the file to")),
	), s.importAttachment)

	s.mcp.AddTool(mcp.NewTool("get_guide",
		mcp.WithDescription("Returns the knowledge base guide: record model, rules and an example flow."),
	), s.getGuide)

	s.mcp.AddResource(
		mcp.NewResource(guideURI, "Knowledge Base Guide",
			mcp.WithResourceDescription("Record model and rules for the knowledge base."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// toolError turns a service error into a tool-level error result. Only
// storage and filesystem failures escape as protocol errors.
func toolError(err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidInput) || errors.Is(err, apperr.ErrConflict) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.core.Search.Notes(ctx, query, service.SearchOptions{
		IncludeDeleted: req.GetBool("include_deleted", false),
		Limit:          req.GetInt("limit", defaultLimit),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrStorage) {
			// Malformed match expressions surface from the engine.
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toolError(err)
	}
	return jsonResult(notes)
}

func (s *Server) searchBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	blocks, err := s.core.Search.Blocks(ctx, query, service.SearchOptions{Limit: req.GetInt("limit", defaultLimit)})
	if err != nil {
		if errors.Is(err, apperr.ErrStorage) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toolError(err)
	}
	return jsonResult(blocks)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.core.Notes.Get(ctx, id, false)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(note)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.core.Notes.Create(ctx, title, req.GetString("content", ""))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(note)
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var upd service.NoteUpdate
	if title, err := req.RequireString("title"); err == nil {
		upd.Title = &title
	}
	if content, err := req.RequireString("content"); err == nil {
		upd.Content = &content
	}
	note, err := s.core.Notes.Update(ctx, id, upd)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(note)
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if folderID := req.GetString("folder_id", ""); folderID != "" {
		notes, err := s.core.Notes.GetByFolder(ctx, folderID, false)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(notes)
	}
	notes, err := s.core.Notes.List(ctx, false)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(notes)
}

func (s *Server) listFolders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folders, err := s.core.Folders.List(ctx)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(folders)
}

func (s *Server) listTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.core.Tags.List(ctx)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(tags)
}

func (s *Server) tagNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := s.core.Tags.GetByName(ctx, name)
	if errors.Is(err, apperr.ErrNotFound) {
		tag, err = s.core.Tags.Create(ctx, name)
	}
	if err != nil {
		return toolError(err)
	}
	if err := s.core.Notes.AddTag(ctx, id, tag.ID); err != nil {
		return toolError(err)
	}
	return jsonResult(tag)
}

func (s *Server) linkNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := req.RequireString("source_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dst, err := req.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	link, err := s.core.Links.CreateNoteLink(ctx, src, dst, req.GetString("text", ""))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(link)
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	links, err := s.core.Links.GetIncoming(ctx, id)
	if err != nil {
		return toolError(err)
	}
	if len(links) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return jsonResult(links)
}

func (s *Server) getGuide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(KnowledgeBaseGuide), nil
}

func (s *Server) readGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     KnowledgeBaseGuide,
		},
	}, nil
}
