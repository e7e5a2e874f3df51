package knowledge

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the alternative Store backend for installs that outgrow
// the JSON file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("set journal_mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	n, err := s.Count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if err := s.Append(BootstrapEntry()); err != nil {
			return nil, fmt.Errorf("seed bootstrap entry: %w", err)
		}
	}
	return s, nil
}

func (s *SQLiteStore) All() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT id, question, answer, created_at, updated_at FROM entries ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Get(id string) (Entry, error) {
	var e Entry
	err := s.db.QueryRow(`SELECT id, question, answer, created_at, updated_at FROM entries WHERE id = ?`, id).
		Scan(&e.ID, &e.Question, &e.Answer, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) Append(e Entry) error {
	_, err := s.db.Exec(`INSERT INTO entries (id, question, answer, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Question, e.Answer, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Update(id, answer string) (Entry, error) {
	res, err := s.db.Exec(`UPDATE entries SET answer = ?, updated_at = ? WHERE id = ?`,
		answer, time.Now().UTC(), id)
	if err != nil {
		return Entry{}, fmt.Errorf("update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Entry{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return Entry{}, ErrNotFound
	}
	return s.Get(id)
}

func (s *SQLiteStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
