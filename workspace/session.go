package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/config"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/council"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/store"
)

const sessionFile = "session.json"

// Session is the working selection carried between CLI invocations. The
// size limit is not part of it; it always comes from the flags, the
// catalog or the configuration.
type Session struct {
	State    council.State   `json:"state"`
	Filter   catalog.Filter  `json:"filter"`
	Settings council.Session `json:"settings"`
}

// SessionPath returns the session file location under projectRoot.
func SessionPath(projectRoot string) string {
	return filepath.Join(projectRoot, config.Dir, sessionFile)
}

// LoadSession reads the session under projectRoot. A missing file yields
// a zero Session and ok == false.
func LoadSession(projectRoot string) (s Session, ok bool, err error) {
	data, err := os.ReadFile(SessionPath(projectRoot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("failed to read %s: %w", sessionFile, err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, false, fmt.Errorf("failed to decode %s: %w", sessionFile, err)
	}
	return s, true, nil
}

// SaveSession writes s under projectRoot.
func SaveSession(projectRoot string, s Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return store.WriteFileAtomic(SessionPath(projectRoot), data)
}
