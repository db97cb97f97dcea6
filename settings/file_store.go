package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"snake-arcade/stats"
)

type fileData struct {
	Values map[string]string  `json:"values"`
	Games  []stats.GameRecord `json:"games"`
}

// FileStore keeps everything in one JSON document.
type FileStore struct {
	mu       sync.Mutex
	filename string
	data     fileData
}

// OpenFileStore loads filename if present; a missing file is an empty store.
func OpenFileStore(filename string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	fs := &FileStore{
		filename: filename,
		data:     fileData{Values: make(map[string]string)},
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	raw, err := os.ReadFile(fs.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%s: %w", fs.filename, err)
	}
	if data.Values == nil {
		data.Values = make(map[string]string)
	}
	fs.data = data
	return nil
}

// saveLocked writes to a temporary file and renames it over the old one.
func (fs *FileStore) saveLocked() error {
	raw, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := fs.filename + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fs.filename)
}

func (fs *FileStore) LoadPreferences() (Preferences, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return decodePreferences(fs.data.Values), nil
}

func (fs *FileStore) SavePreferences(p Preferences) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for k, v := range encodePreferences(p) {
		fs.data.Values[k] = v
	}
	return fs.saveLocked()
}

func (fs *FileStore) HighScore() (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.data.Values[KeyHighScore]
	if !ok {
		return 0, nil
	}
	return parseHighScore(v), nil
}

func (fs *FileStore) SetHighScore(score int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.Values[KeyHighScore] = strconv.Itoa(score)
	return fs.saveLocked()
}

func (fs *FileStore) RecordGame(record stats.GameRecord) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.Games = append(fs.data.Games, record)
	return fs.saveLocked()
}

func (fs *FileStore) Games() ([]stats.GameRecord, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]stats.GameRecord, len(fs.data.Games))
	copy(out, fs.data.Games)
	return out, nil
}

func (fs *FileStore) Close() error {
	return nil
}
