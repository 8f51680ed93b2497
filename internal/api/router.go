package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/synapse/synapse/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(core *service.Core, authEnabled bool, token string) chi.Router {
	h := NewHandler(core)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetNote)
			r.Patch("/", h.UpdateNote)
			r.Delete("/", h.DeleteNote)
			r.Post("/restore", h.RestoreNote)

			r.Get("/folders", h.NoteFolders)
			r.Put("/folders/{folderID}", h.AddNoteToFolder)
			r.Delete("/folders/{folderID}", h.RemoveNoteFromFolder)
			r.Post("/folders/{folderID}/primary", h.SetPrimaryFolder)
			r.Put("/folders/{folderID}/position", h.UpdateNoteFolderPosition)

			r.Get("/tags", h.NoteTags)
			r.Put("/tags/{tagID}", h.AddNoteTag)
			r.Delete("/tags/{tagID}", h.RemoveNoteTag)

			r.Get("/attachments", h.NoteAttachments)
			r.Put("/attachments/{attachmentID}", h.AddNoteAttachment)
			r.Delete("/attachments/{attachmentID}", h.RemoveNoteAttachment)
			r.Put("/attachments/{attachmentID}/position", h.UpdateNoteAttachmentPosition)

			r.Get("/blocks", h.NoteBlocks)
			r.Get("/links", h.NoteLinks)
			r.Get("/backlinks", h.NoteBacklinks)
		})
	})

	r.Route("/blocks", func(r chi.Router) {
		r.Post("/", h.CreateBlock)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetBlock)
			r.Patch("/", h.UpdateBlock)
			r.Delete("/", h.DeleteBlock)
			r.Post("/restore", h.RestoreBlock)

			r.Get("/references", h.ReferencedBlocks)
			r.Post("/references", h.CreateBlockReference)
			r.Delete("/references/{targetID}", h.DeleteBlockReference)
			r.Get("/referencing", h.ReferencingBlocks)

			r.Get("/attachments", h.BlockAttachments)
			r.Put("/attachments/{attachmentID}", h.AddBlockAttachment)
			r.Delete("/attachments/{attachmentID}", h.RemoveBlockAttachment)

			r.Get("/links", h.BlockLinks)
		})
	})

	r.Route("/folders", func(r chi.Router) {
		r.Get("/", h.ListFolders)
		r.Post("/", h.CreateFolder)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetFolder)
			r.Patch("/", h.UpdateFolder)
			r.Delete("/", h.DeleteFolder)
			r.Get("/children", h.FolderChildren)
			r.Get("/notes", h.FolderNotes)
		})
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.ListTags)
		r.Post("/", h.CreateTag)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTag)
			r.Patch("/", h.UpdateTag)
			r.Delete("/", h.DeleteTag)
			r.Get("/notes", h.TagNotes)
		})
	})

	r.Route("/links", func(r chi.Router) {
		r.Post("/", h.CreateLink)
		r.Get("/{id}", h.GetLink)
		r.Delete("/{id}", h.DeleteLink)
	})

	r.Route("/attachments", func(r chi.Router) {
		r.Get("/", h.ListAttachments)
		r.Post("/", h.UploadAttachment)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetAttachment)
			r.Patch("/", h.UpdateAttachment)
			r.Delete("/", h.DeleteAttachment)
			r.Get("/content", h.AttachmentContent)
		})
	})

	r.Get("/search", h.Search)

	return r
}
