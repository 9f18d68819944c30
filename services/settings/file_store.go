//go:build !rp2040 && !rp2350

package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// FileStore keeps one file per key under Dir. Writes go through a
// temporary file and a rename so a crash never leaves a torn blob.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(key string) string { return filepath.Join(s.Dir, key+".bin") }

func (s *FileStore) Load(key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("settings: read failed")
		return nil, err
	}
	return b, nil
}

func (s *FileStore) Save(key string, blob []byte) error {
	tmp, err := os.CreateTemp(s.Dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return err
	}
	log.WithFields(log.Fields{"key": key, "bytes": len(blob)}).Debug("settings: saved")
	return nil
}

func (s *FileStore) Erase(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
