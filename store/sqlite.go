package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/logging"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/preset"
	"github.com/sirupsen/logrus"
)

// SQLite keeps the same JSON documents as File in a single key/value table.
type SQLite struct {
	db  *sql.DB
	log logrus.FieldLogger
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db, log: logging.For("store").WithField("backend", BackendSQLite)}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) get(key string) []byte {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.WithError(err).Warnf("failed to read %s", key)
		}
		return nil
	}
	return []byte(value)
}

func (s *SQLite) put(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.WithError(err).Warnf("failed to encode %s", key)
		return
	}
	_, err = s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UnixMilli())
	if err != nil {
		s.log.WithError(err).Warnf("failed to write %s", key)
	}
}

func (s *SQLite) LoadLastUsed() (*LastUsed, bool) {
	l, rejected := SanitizeLastUsed(s.get(KeyLastUsed))
	if len(rejected) > 0 {
		s.log.WithField("rejected", rejected).Debug("sanitized last-used selection")
	}
	return l, l != nil
}

func (s *SQLite) SaveLastUsed(l LastUsed) {
	s.put(KeyLastUsed, l)
}

func (s *SQLite) LoadSavedPresets() []preset.Preset {
	list, rejected := preset.SanitizePresets(s.get(KeySavedPresets))
	if len(rejected) > 0 {
		s.log.WithField("rejected", rejected).Debug("sanitized saved presets")
	}
	return list
}

func (s *SQLite) SaveSavedPresets(list []preset.Preset) {
	if list == nil {
		list = []preset.Preset{}
	}
	s.put(KeySavedPresets, list)
}

