// Package testutil provides a throwaway database for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// schema mirrors the MySQL tables closely enough for the repositories' SQL.
const schema = `
CREATE TABLE users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	email      TEXT NOT NULL,
	password   TEXT NOT NULL
);

CREATE TABLE todos (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	todo          TEXT NOT NULL,
	done          INTEGER NOT NULL DEFAULT 0,
	fk_email_user TEXT NOT NULL
);
`

// NewTestDB opens a SQLite database in the test's temp dir with the users and
// todos tables. The pool holds several connections so concurrent callers use
// separate ones; writers wait on the busy timeout instead of failing. It is
// closed automatically when the test completes.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	db.SetMaxOpenConns(4)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("creating test schema: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return db
}
