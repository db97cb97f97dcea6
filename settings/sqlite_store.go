package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"snake-arcade/stats"
)

// SQLiteStore keeps settings and finished games in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			score INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS games_started ON games(started_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) get(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *SQLiteStore) put(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`INSERT INTO settings(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *SQLiteStore) LoadPreferences() (Preferences, error) {
	values := make(map[string]string)
	for _, k := range []string{KeyTheme, KeySpeed, KeySound, KeyVibrate} {
		v, err := s.get(k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return DefaultPreferences(), err
		}
		values[k] = v
	}
	return decodePreferences(values), nil
}

func (s *SQLiteStore) SavePreferences(p Preferences) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for k, v := range encodePreferences(p) {
		if err := s.put(tx, k, v); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) HighScore() (int, error) {
	v, err := s.get(KeyHighScore)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseHighScore(v), nil
}

func (s *SQLiteStore) SetHighScore(score int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := s.put(tx, KeyHighScore, strconv.Itoa(score)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) RecordGame(record stats.GameRecord) error {
	_, err := s.db.Exec(`INSERT INTO games(session, score, started_at, ended_at) VALUES(?, ?, ?, ?)`,
		record.Session,
		record.Score,
		record.StartTime.UTC().Format(time.RFC3339Nano),
		record.EndTime.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) Games() ([]stats.GameRecord, error) {
	rows, err := s.db.Query(`SELECT session, score, started_at, ended_at FROM games ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stats.GameRecord
	for rows.Next() {
		var (
			session, started, ended string
			score                   int
		)
		if err := rows.Scan(&session, &score, &started, &ended); err != nil {
			return nil, err
		}
		start, err := time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("games.started_at: %w", err)
		}
		end, err := time.Parse(time.RFC3339Nano, ended)
		if err != nil {
			return nil, fmt.Errorf("games.ended_at: %w", err)
		}
		out = append(out, stats.NewRecord(session, score, start, end))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
