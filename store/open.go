package store

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Backend is a Store that may hold resources.
type Backend interface {
	Store
	io.Closer
}

// Open returns the backend named by kind rooted at path. For the file
// backend path is a directory; for sqlite it is the database directory and
// the file council.db is created inside it.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendFile:
		return NewFile(path), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(path, "council.db"))
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}
