// Package state persists the daemon's durable records in SQLite: the
// Last.fm session and a journal of submitted scrobbles.
package state

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/scrobbled/internal/db"
)

const dbFileName = "scrobbled.db"

type Manager struct {
	db *sql.DB
}

// Open creates or opens the state database under dataDir.
func Open(dataDir string) (*Manager, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, err
	}

	if err := initSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &Manager{db: sqlDB}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// Reset clears the stored session and the journal in one transaction.
func (m *Manager) Reset() error {
	return db.WithTx(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM lastfm_session`); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM scrobble_journal`)
		return err
	})
}
