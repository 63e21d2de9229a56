// Package db holds small database/sql helpers shared by the state
// store.
package db

import (
	"database/sql"
	"fmt"
)

// WithTx runs fn inside a transaction: rollback when fn fails, commit
// otherwise.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck // fn's error is the one worth reporting
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NullStringValue unwraps a nullable column, empty when NULL.
func NullStringValue(n sql.NullString) string {
	if n.Valid {
		return n.String
	}
	return ""
}
