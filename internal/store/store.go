// Package store persists session state as one JSON document per session id,
// overwritten after every mutation. Loading never fails the caller: missing
// or damaged documents fall back to a fresh session.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-advisor/internal/fileutil"
	"github.com/lox/blackjack-advisor/internal/session"
)

// ErrInvalidID is returned for session ids that cannot name a file.
var ErrInvalidID = errors.New("invalid session id")

// DirStore keeps session documents as <dir>/<id>.json.
type DirStore struct {
	dir    string
	logger *log.Logger
}

// NewDirStore returns a store rooted at dir. The directory is created on the
// first save.
func NewDirStore(dir string, logger *log.Logger) *DirStore {
	return &DirStore{dir: dir, logger: logger.WithPrefix("store")}
}

// Dir returns the root directory.
func (d *DirStore) Dir() string {
	return d.dir
}

func (d *DirStore) path(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(d.dir, id+".json"), nil
}

// Save writes the session document atomically.
func (d *DirStore) Save(id string, s *session.State) error {
	path, err := d.path(id)
	if err != nil {
		return err
	}
	if err := fileutil.WriteJSONAtomic(path, Encode(s)); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

// Load returns the stored session, or a fresh one built from defaults when
// nothing usable is stored. found reports whether a document existed.
func (d *DirStore) Load(id string, defaults session.Options) (s *session.State, found bool) {
	path, err := d.path(id)
	if err != nil {
		d.logger.Warn("Using fresh session", "id", id, "error", err)
		return session.New(defaults), false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			d.logger.Warn("Failed to read session, starting fresh", "id", id, "error", err)
		}
		return session.New(defaults), false
	}

	s, err = Decode(data, defaults)
	if err != nil {
		d.logger.Warn("Session document partly unreadable", "id", id, "error", err)
	}
	return s, true
}

// Delete removes a stored session. Deleting a missing session is not an error.
func (d *DirStore) Delete(id string) error {
	path, err := d.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
