package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS lastfm_session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			username TEXT NOT NULL,
			session_key TEXT NOT NULL,
			linked_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS scrobble_journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			speaker TEXT NOT NULL,
			artist TEXT NOT NULL,
			title TEXT NOT NULL,
			album TEXT,
			duration_seconds INTEGER NOT NULL,
			scrobbled_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_journal_scrobbled_at ON scrobble_journal(scrobbled_at DESC);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
