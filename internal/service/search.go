package service

import (
	"context"

	"github.com/synapse/synapse/internal/models"
)

// SearchService runs full-text queries. Queries reach the engine verbatim,
// so its MATCH syntax (phrases, prefixes, boolean operators) is available
// and a malformed expression comes back as a Storage error.
type SearchService struct {
	c *Core
}

// SearchOptions narrows a search. Limit 0 means unlimited.
type SearchOptions struct {
	IncludeDeleted bool
	Limit          int
}

// Notes matches titles and bodies, most recently updated first.
func (s *SearchService) Notes(_ context.Context, query string, opts SearchOptions) ([]models.Note, error) {
	defer s.c.lock()()
	if err := checkField("query", query, notBlank); err != nil {
		return nil, err
	}
	return s.c.db.SearchNotes(query, opts.IncludeDeleted, opts.Limit)
}

// Blocks matches block content, ordered by position.
func (s *SearchService) Blocks(_ context.Context, query string, opts SearchOptions) ([]models.Block, error) {
	defer s.c.lock()()
	if err := checkField("query", query, notBlank); err != nil {
		return nil, err
	}
	return s.c.db.SearchBlocks(query, opts.IncludeDeleted, opts.Limit)
}
