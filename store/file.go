package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/logging"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/preset"
	"github.com/sirupsen/logrus"
)

// File keeps each record as a JSON document in a directory.
type File struct {
	dir string
	log logrus.FieldLogger
}

var _ Store = (*File)(nil)

// NewFile returns a file store rooted at dir. The directory is created on
// first write.
func NewFile(dir string) *File {
	return &File{dir: dir, log: logging.For("store").WithField("backend", BackendFile)}
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) read(key string) []byte {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.WithError(err).Warnf("failed to read %s", key)
		}
		return nil
	}
	return data
}

func (f *File) write(key string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		f.log.WithError(err).Warnf("failed to encode %s", key)
		return
	}
	if err := WriteFileAtomic(f.path(key), data); err != nil {
		f.log.WithError(err).Warnf("failed to write %s", key)
	}
}

func (f *File) LoadLastUsed() (*LastUsed, bool) {
	l, rejected := SanitizeLastUsed(f.read(KeyLastUsed))
	if len(rejected) > 0 {
		f.log.WithField("rejected", rejected).Debug("sanitized last-used selection")
	}
	return l, l != nil
}

func (f *File) SaveLastUsed(l LastUsed) {
	f.write(KeyLastUsed, l)
}

func (f *File) LoadSavedPresets() []preset.Preset {
	list, rejected := preset.SanitizePresets(f.read(KeySavedPresets))
	if len(rejected) > 0 {
		f.log.WithField("rejected", rejected).Debug("sanitized saved presets")
	}
	return list
}

func (f *File) SaveSavedPresets(list []preset.Preset) {
	if list == nil {
		list = []preset.Preset{}
	}
	f.write(KeySavedPresets, list)
}

// Close implements Backend; the file store holds no resources.
func (f *File) Close() error { return nil }

// WriteFileAtomic writes data to a temporary sibling and renames it over
// path so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
