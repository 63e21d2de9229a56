package state

import (
	"database/sql"
	"time"
)

// LastfmSession is the linked Last.fm account, one row at most.
type LastfmSession struct {
	Username   string
	SessionKey string
	LinkedAt   time.Time
}

// GetLastfmSession loads the linked session. A nil session without an
// error means no account is linked yet.
func (m *Manager) GetLastfmSession() (*LastfmSession, error) {
	var sess LastfmSession
	var linkedAt int64
	err := m.db.QueryRow(
		`SELECT username, session_key, linked_at FROM lastfm_session WHERE id = 1`,
	).Scan(&sess.Username, &sess.SessionKey, &linkedAt)
	switch {
	case err == sql.ErrNoRows:
		return nil, nil //nolint:nilnil // not linked is not an error
	case err != nil:
		return nil, err
	}
	sess.LinkedAt = time.Unix(linkedAt, 0)
	return &sess, nil
}

// SaveLastfmSession records a fresh session key, replacing whatever
// account was linked before.
func (m *Manager) SaveLastfmSession(username, sessionKey string) error {
	_, err := m.db.Exec(
		`INSERT OR REPLACE INTO lastfm_session (id, username, session_key, linked_at) VALUES (1, ?, ?, ?)`,
		username, sessionKey, time.Now().Unix(),
	)
	return err
}

// DeleteLastfmSession unlinks the account.
func (m *Manager) DeleteLastfmSession() error {
	_, err := m.db.Exec(`DELETE FROM lastfm_session WHERE id = 1`)
	return err
}
