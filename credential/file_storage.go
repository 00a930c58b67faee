package credential

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStorage keeps each key in its own JSON file under a folder,
// standing in for the browser's local storage when the client runs as
// a native process.
type FileStorage struct {
	folder string
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage creates the folder if needed and returns a store
// rooted there.
func NewFileStorage(folder string) (*FileStorage, error) {
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStorage] MkdirAll")
	}
	return &FileStorage{folder: folder}, nil
}

func (fs *FileStorage) Load(key string) (string, bool) {
	raw, err := os.ReadFile(fs.path(key))
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func (fs *FileStorage) Save(key, value string) error {
	if err := os.WriteFile(fs.path(key), []byte(value), 0o600); err != nil {
		return errors.Wrap(err, "[FileStorage.Save] WriteFile")
	}
	return nil
}

func (fs *FileStorage) Remove(key string) error {
	err := os.Remove(fs.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStorage.Remove] Remove")
	}
	return nil
}

func (fs *FileStorage) path(key string) string {
	return filepath.Join(fs.folder, key+".json")
}
