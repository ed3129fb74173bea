// Package viewstate is the device-local record of which cards have already
// played their reveal animation. One row per card id, in a SQLite file of its
// own, so no other local state shares the namespace.
package viewstate

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Tracker struct {
	db *sql.DB
}

// Open opens or creates the view-state database at the given path.
func Open(path string) (*Tracker, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open view state db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS viewed_cards (
			card_id TEXT PRIMARY KEY,
			viewed_at TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Tracker{db: db}, nil
}

// DefaultPath is the per-user location of the view-state database. It
// survives restarts but not a reinstall that clears the config dir.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "beauty-clinic-message-card", "viewed.db"), nil
}

func (t *Tracker) Close() error {
	return t.db.Close()
}

// HasViewed reports whether the reveal for cardID was already committed on
// this device. A missing row is (false, nil); callers on the render path are
// expected to collapse an error to false.
func (t *Tracker) HasViewed(cardID string) (bool, error) {
	var one int
	err := t.db.QueryRow(`SELECT 1 FROM viewed_cards WHERE card_id = ?`, cardID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read view state: %w", err)
	}
	return true, nil
}

// MarkViewed records the reveal commit for cardID. Idempotent: marking an
// already-viewed card changes nothing.
func (t *Tracker) MarkViewed(cardID string) error {
	_, err := t.db.Exec(
		`INSERT INTO viewed_cards (card_id, viewed_at) VALUES (?, ?)
		 ON CONFLICT(card_id) DO NOTHING`,
		cardID,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write view state: %w", err)
	}
	return nil
}
