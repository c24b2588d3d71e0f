package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jkarvon/muistutin/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const (
	membersKey   = "members"
	remindersKey = "reminders"
)

// Storage persists the member and reminder lists as whole JSON snapshots,
// one row per collection. A snapshot that fails to parse is treated as
// absent so a damaged database never blocks startup.
type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (s *Storage) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Storage) put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// LoadMembers returns the saved member names. An absent or malformed
// snapshot yields an empty list, never an error for the caller to handle.
func (s *Storage) LoadMembers() ([]string, error) {
	value, ok, err := s.get(membersKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}

	var members []string
	if err := json.Unmarshal([]byte(value), &members); err != nil {
		log.Printf("Malformed members snapshot, starting empty: %v", err)
		return []string{}, nil
	}
	return members, nil
}

func (s *Storage) SaveMembers(members []string) error {
	data, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("marshal members: %w", err)
	}
	return s.put(membersKey, string(data))
}

// LoadReminders returns the saved reminder list with full history. Records
// written before history tracking existed come back with an empty history
// rather than nil, and a malformed snapshot yields an empty list.
func (s *Storage) LoadReminders() ([]*domain.Reminder, error) {
	value, ok, err := s.get(remindersKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*domain.Reminder{}, nil
	}

	var reminders []*domain.Reminder
	if err := json.Unmarshal([]byte(value), &reminders); err != nil {
		log.Printf("Malformed reminders snapshot, starting empty: %v", err)
		return []*domain.Reminder{}, nil
	}
	for _, r := range reminders {
		if r.History == nil {
			r.History = []domain.HistoryEntry{}
		}
		r.Repeat.Normalize()
	}
	return reminders, nil
}

func (s *Storage) SaveReminders(reminders []*domain.Reminder) error {
	data, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("marshal reminders: %w", err)
	}
	return s.put(remindersKey, string(data))
}
