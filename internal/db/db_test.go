package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_AppliesPragmasToEveryConnection(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	conn.SetMaxOpenConns(3)
	for i := 0; i < 3; i++ {
		var fk int
		if err := conn.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("read foreign_keys: %v", err)
		}
		if fk != 1 {
			t.Fatalf("foreign_keys=%d, want 1", fk)
		}
	}

	var mode string
	if err := conn.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode=%q, want wal", mode)
	}
}

func TestOpen_PathWithURISyntax(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quotes?v=1#a 50%.db")

	conn, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := conn.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	conn.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database at %q: %v", path, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "quotes")); !os.IsNotExist(err) {
		t.Fatalf("path was truncated at '?': stat err = %v", err)
	}
}

func TestDSN_EscapesPath(t *testing.T) {
	got := dsn("/data/a?b#c%d.db")
	want := "file:/data/a%3Fb%23c%25d.db?"
	if len(got) < len(want) || got[:len(want)] != want {
		t.Fatalf("dsn = %q, want prefix %q", got, want)
	}
}
