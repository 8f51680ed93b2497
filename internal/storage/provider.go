// Package storage is the file-system side of the knowledge base: note
// bodies under notes/ and attachment payloads under attachments/.
package storage

import "time"

// Subdirectories created under the data directory.
const (
	NotesDir       = "notes"
	AttachmentsDir = "attachments"
)

// FileMeta describes one file found by List.
type FileMeta struct {
	Path    string // relative to the data directory, slash separated
	Size    int64
	ModTime time.Time
}

// Provider is the interface for data-directory file operations. Every path
// is relative to the data directory.
type Provider interface {
	List(dir, ext string) ([]FileMeta, error)
	Read(path string) ([]byte, error)
	Exists(path string) (bool, error)
	Write(path string, content []byte) error
	Delete(path string) error
	Abs(path string) (string, error)
	Rel(abs string) (string, error)
	Root() string
}
