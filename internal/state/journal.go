package state

import (
	"database/sql"
	"time"

	"github.com/llehouerou/scrobbled/internal/db"
)

// JournalEntry is one scrobble the daemon submitted.
type JournalEntry struct {
	ID           int64
	Speaker      string
	Artist       string
	Title        string
	Album        string
	DurationSecs int
	ScrobbledAt  time.Time
}

// JournalStats summarizes the journal.
type JournalStats struct {
	Total int
	Today int
}

// AddJournalEntry records a submitted scrobble.
func (m *Manager) AddJournalEntry(e JournalEntry) error {
	_, err := m.db.Exec(`
		INSERT INTO scrobble_journal (speaker, artist, title, album, duration_seconds, scrobbled_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Speaker, e.Artist, e.Title, e.Album, e.DurationSecs, e.ScrobbledAt.Unix())
	return err
}

// RecentJournalEntries returns the latest entries, newest first.
func (m *Manager) RecentJournalEntries(limit int) ([]JournalEntry, error) {
	rows, err := m.db.Query(`
		SELECT id, speaker, artist, title, album, duration_seconds, scrobbled_at
		FROM scrobble_journal
		ORDER BY scrobbled_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var album sql.NullString
		var scrobbledAt int64

		err := rows.Scan(&e.ID, &e.Speaker, &e.Artist, &e.Title, &album, &e.DurationSecs, &scrobbledAt)
		if err != nil {
			return nil, err
		}

		e.Album = db.NullStringValue(album)
		e.ScrobbledAt = time.Unix(scrobbledAt, 0)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Stats returns journal totals. Today counts entries since local
// midnight.
func (m *Manager) Stats() (JournalStats, error) {
	var stats JournalStats

	if err := m.db.QueryRow(`SELECT COUNT(*) FROM scrobble_journal`).Scan(&stats.Total); err != nil {
		return stats, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err := m.db.QueryRow(`
		SELECT COUNT(*) FROM scrobble_journal WHERE scrobbled_at >= ?
	`, midnight.Unix()).Scan(&stats.Today)
	return stats, err
}

// PruneJournal removes entries older than the given duration.
func (m *Manager) PruneJournal(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge).Unix()
	_, err := m.db.Exec(`DELETE FROM scrobble_journal WHERE scrobbled_at < ?`, cutoff)
	return err
}
