// Package service is the domain layer of the knowledge base. It combines
// note-body file I/O with relational writes and is the only surface the
// REST, MCP and CLI front ends call.
package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/synapse/synapse/internal/storage"
	"github.com/synapse/synapse/internal/store"
)

// Core holds the store handle and data directory shared by every service.
// Every exported service operation runs under mu, so the read, file write
// and row write of one call never interleave with another call.
type Core struct {
	mu     sync.Mutex
	db     *store.DB
	files  storage.Provider
	logger *slog.Logger
	clock  func() time.Time

	Notes       *NoteService
	Blocks      *BlockService
	Folders     *FolderService
	Tags        *TagService
	Links       *LinkService
	Search      *SearchService
	Attachments *AttachmentService
}

// Option configures a Core.
type Option func(*Core)

// WithLogger sets the logger services report mutations to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Core) {
		c.logger = l
	}
}

// WithClock replaces the time source. Tests use it to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Core) {
		c.clock = now
	}
}

// Open opens the database at dbPath and roots note and attachment files at
// dataDir, creating notes/ and attachments/ when absent.
func Open(dbPath, dataDir string, opts ...Option) (*Core, error) {
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return newCore(db, dataDir, opts)
}

// OpenInMemory is Open backed by a transient database.
func OpenInMemory(dataDir string, opts ...Option) (*Core, error) {
	db, err := store.OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return newCore(db, dataDir, opts)
}

func newCore(db *store.DB, dataDir string, opts []Option) (*Core, error) {
	files, err := storage.NewFS(dataDir)
	if err != nil {
		db.Close()
		return nil, err
	}
	c := &Core{
		db:     db,
		files:  files,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Notes = &NoteService{c}
	c.Blocks = &BlockService{c}
	c.Folders = &FolderService{c}
	c.Tags = &TagService{c}
	c.Links = &LinkService{c}
	c.Search = &SearchService{c}
	c.Attachments = &AttachmentService{c}
	return c, nil
}

// Close releases the store connection.
func (c *Core) Close() error {
	return c.db.Close()
}

// DB exposes the store for reconciliation.
func (c *Core) DB() *store.DB { return c.db }

// Files exposes the data-directory provider.
func (c *Core) Files() storage.Provider { return c.files }

// Logger returns the logger services write to.
func (c *Core) Logger() *slog.Logger { return c.logger }

// lock takes the service mutex and returns its release.
func (c *Core) lock() func() {
	c.mu.Lock()
	return c.mu.Unlock
}

// now returns the clock reading at the store's millisecond resolution.
func (c *Core) now() time.Time {
	return c.clock().UTC().Truncate(time.Millisecond)
}

// touch returns a timestamp no earlier than prev so updated_at never
// moves backwards when the wall clock does.
func (c *Core) touch(prev time.Time) time.Time {
	now := c.now()
	if now.Before(prev) {
		return prev
	}
	return now
}

// Identifier prefixes.
const (
	kindNote       = "note"
	kindBlock      = "block"
	kindFolder     = "folder"
	kindTag        = "tag"
	kindLink       = "link"
	kindReference  = "ref"
	kindAttachment = "attachment"
)

func newID(kind string) string {
	return kind + "-" + uuid.NewString()
}
