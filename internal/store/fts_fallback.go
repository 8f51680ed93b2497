//go:build !sqlite_fts5

package store

// FTSEngine names the full-text module compiled into this build. Without the
// sqlite_fts5 tag the driver still ships FTS3/FTS4, which accept the same
// MATCH queries used here.
const FTSEngine = "fts4"

var ftsDDL = []string{
	`CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts4(
		note_id,
		title,
		body,
		notindexed=note_id
	)`,
	`CREATE VIRTUAL TABLE IF NOT EXISTS blocks_fts USING fts4(
		block_id,
		body,
		notindexed=block_id
	)`,
}
