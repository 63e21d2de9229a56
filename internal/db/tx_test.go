package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func openScratchDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec(`CREATE TABLE plays (id INTEGER PRIMARY KEY, track TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return conn
}

func countPlays(t *testing.T, conn *sql.DB) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM plays`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithTxCommits(t *testing.T) {
	conn := openScratchDB(t)

	err := WithTx(conn, func(tx *sql.Tx) error {
		for _, track := range []string{"One More Time", "Aerodynamic"} {
			if _, err := tx.Exec(`INSERT INTO plays (track) VALUES (?)`, track); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	if got := countPlays(t, conn); got != 2 {
		t.Errorf("plays = %d, want 2", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn := openScratchDB(t)
	boom := errors.New("boom")

	err := WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO plays (track) VALUES (?)`, "Digital Love"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v, want %v", err, boom)
	}

	// The insert that happened before the failure must not survive.
	if got := countPlays(t, conn); got != 0 {
		t.Errorf("plays = %d, want 0", got)
	}
}

func TestWithTxClosedDB(t *testing.T) {
	conn := openScratchDB(t)
	conn.Close()

	called := false
	err := WithTx(conn, func(tx *sql.Tx) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("WithTx on closed db should fail")
	}
	if called {
		t.Error("fn ran despite Begin failing")
	}
}

func TestNullStringValue(t *testing.T) {
	cases := []struct {
		in   sql.NullString
		want string
	}{
		{sql.NullString{String: "Discovery", Valid: true}, "Discovery"},
		{sql.NullString{String: "Discovery", Valid: false}, ""},
		{sql.NullString{}, ""},
	}
	for _, c := range cases {
		if got := NullStringValue(c.in); got != c.want {
			t.Errorf("NullStringValue(%+v) = %q, want %q", c.in, got, c.want)
		}
	}
}
