package mcpserver

// KnowledgeBaseGuide explains the record model to LLM consumers so tool
// calls use ids and fields the way the services expect.
const KnowledgeBaseGuide = `# Synapse Knowledge Base Guide

## Records

- **Note**: a title plus a Markdown body. Notes are addressed by id
  (` + "`note-<uuid>`" + `), never by file path. The body is stored as a file;
  ` + "`word_count`" + ` is the number of whitespace-separated tokens in it.
- **Folder**: a node in a tree. A folder's ` + "`path`" + ` is fixed when the folder is
  created and does not follow later renames or moves. A note may sit in
  several folders; at most one of them is its primary folder.
- **Tag**: a unique, case-sensitive name with optional color and icon.
- **Link**: a directed edge. ` + "`note_link`" + ` points at another note;
  ` + "`block_reference`" + ` points from one block at another.
- **Attachment**: a file payload deduplicated by SHA-256 content hash.
  Importing identical bytes twice returns the existing attachment.

## Rules

1. Titles must not be blank and are at most 500 characters.
2. Deleting a note or block is a soft delete; it can be restored. Deleted
   records are hidden from reads and search unless explicitly requested.
3. Search queries are passed to the SQLite full-text engine verbatim, so
   its match syntax applies (e.g. ` + "`quarterly AND report`" + `, ` + "`\"exact phrase\"`" + `).
4. Both endpoints of a link must exist; create notes before linking them.
5. Reference attachments in note bodies as
   ` + "`![description](/attachments/<attachment id>/content)`" + `.

## Example flow

1. ` + "`create_note`" + ` with title "Weekly standup" and the meeting body.
2. ` + "`tag_note`" + ` with that note id and tag "meeting-notes" (created if absent).
3. ` + "`link_notes`" + ` from the standup to the project note with text "project".
4. ` + "`get_backlinks`" + ` on the project note now lists the standup link.
`
