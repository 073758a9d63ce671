// Package session owns the single mutable value of a studio session and
// persists it as durable key-value records.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSession is returned when no session has been created yet.
var ErrNoSession = errors.New("no active session")

// ErrNoRecord is returned by Load when a record does not exist.
var ErrNoRecord = errors.New("record not found")

// Record keys. Each is overwritten wholesale on mutation.
const (
	KeyFiles     = "files"
	KeyCommitted = "committed"
	KeyPackages  = "packages"
	KeyRoadmap   = "roadmap"
	KeyServer    = "server"
	KeyHistory   = "history"
	KeyUsage     = "usage"
)

// Store persists the records of one session.
type Store interface {
	Save(key string, v any) error
	Load(key string, v any) error // returns ErrNoRecord if absent
	Path(key string) string
	Delete() error
}

// diskStore writes one JSON file per record under the session directory.
type diskStore struct {
	dir string
}

// DataDir returns the studio-specific XDG data directory.
// Path: $XDG_DATA_HOME/studio or ~/.local/share/studio
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "studio"), nil
}

// NewStore returns a Store for the session id, creating its directory.
func NewStore(id string) (Store, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}
	base, err := DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	dir := filepath.Join(base, "sessions", id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return &diskStore{dir: dir}, nil
}

// CurrentID returns the id of the current session, or ErrNoSession.
func CurrentID() (string, error) {
	base, err := DataDir()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(base, "current"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("failed to read current session: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

// SetCurrent makes id the current session.
func SetCurrent(id string) error {
	base, err := DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return writeAtomic(filepath.Join(base, "current"), []byte(id+"\n"))
}

// List returns the ids of every stored session, sorted.
func List() ([]string, error) {
	base, err := DataDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(base, "sessions"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

func (d *diskStore) Path(key string) string {
	return filepath.Join(d.dir, key+".json")
}

// Save marshals v to JSON and writes it atomically via a temp file + os.Rename.
func (d *diskStore) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	if err := writeAtomic(d.Path(key), data); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// Load reads and unmarshals the record at key.
func (d *diskStore) Load(key string, v any) error {
	data, err := os.ReadFile(d.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoRecord
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

// Delete removes every record of the session.
func (d *diskStore) Delete() error {
	if err := os.RemoveAll(d.dir); err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

// writeAtomic writes data to a temp file in the same directory and renames it
// over path, so readers never observe a partial record.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
