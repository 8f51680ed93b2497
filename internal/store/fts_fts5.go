//go:build sqlite_fts5

package store

// FTSEngine names the full-text module compiled into this build.
const FTSEngine = "fts5"

var ftsDDL = []string{
	`CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
		note_id UNINDEXED,
		title,
		body,
		tokenize = 'unicode61 remove_diacritics 2'
	)`,
	`CREATE VIRTUAL TABLE IF NOT EXISTS blocks_fts USING fts5(
		block_id UNINDEXED,
		body,
		tokenize = 'unicode61 remove_diacritics 2'
	)`,
}
