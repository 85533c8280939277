// Package registry maintains the user's list of folders and persists it.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// SettingsKey is the fixed, versioned key the settings record is stored under.
const SettingsKey = "xlview-settings-v1"

// ErrNotFound indicates no settings record has been stored yet.
var ErrNotFound = errors.New("settings not found")

// Settings is the persisted settings record.
type Settings struct {
	FolderPaths []string `json:"folderPaths"`
}

// Store loads and saves the settings record.
type Store interface {
	// Load returns the stored record, or ErrNotFound when none exists.
	Load(ctx context.Context) (Settings, error)
	// Save replaces the stored record.
	Save(ctx context.Context, s Settings) error
}

// encodeSettings serializes s, writing an empty list rather than null.
func encodeSettings(s Settings) ([]byte, error) {
	if s.FolderPaths == nil {
		s.FolderPaths = []string{}
	}
	return json.Marshal(s)
}

func decodeSettings(data []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("corrupt settings record: %w", err)
	}
	return s, nil
}

// MemoryStore keeps the record in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return Settings{}, ErrNotFound
	}
	return decodeSettings(m.data)
}

func (m *MemoryStore) Save(_ context.Context, s Settings) error {
	data, err := encodeSettings(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}
