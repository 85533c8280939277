package registry

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/ukaji3/xlview-go/internal/filelock"
)

// FileStore keeps the record as a JSON file named after SettingsKey.
// Writes are atomic and guarded by a lock file shared across processes.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to <dir>/<SettingsKey>.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, SettingsKey+".json")}
}

// Path returns the settings file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (Settings, error) {
	data, err := filelock.LockAndRead(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, ErrNotFound
		}
		return Settings{}, err
	}
	return decodeSettings(data)
}

func (s *FileStore) Save(_ context.Context, st Settings) error {
	data, err := encodeSettings(st)
	if err != nil {
		return err
	}
	return filelock.LockAndWrite(s.path, data)
}
