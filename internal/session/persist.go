package session

import (
	"errors"
	"fmt"

	"github.com/fakeyudi/studio/internal/generator"
	"github.com/fakeyudi/studio/internal/roadmap"
	"github.com/fakeyudi/studio/internal/vfs"
)

type serverRecord struct {
	Kind    string   `json:"kind,omitempty"`
	Preview vfs.Tree `json:"preview,omitempty"`
}

// AllKeys lists every record key in the order they are written.
var AllKeys = []string{KeyFiles, KeyCommitted, KeyPackages, KeyRoadmap, KeyServer, KeyHistory, KeyUsage}

// SaveState writes the given records of s. Every key is attempted; the
// returned error joins all failures.
func SaveState(store Store, s State, keys ...string) error {
	if len(keys) == 0 {
		keys = AllKeys
	}
	var errs []error
	for _, key := range keys {
		var v any
		switch key {
		case KeyFiles:
			v = s.Files
		case KeyCommitted:
			v = s.Committed
		case KeyPackages:
			v = s.Packages
		case KeyRoadmap:
			v = s.Roadmap
		case KeyServer:
			v = serverRecord{Kind: s.Server, Preview: s.ServerPreview}
		case KeyHistory:
			v = s.History
		case KeyUsage:
			v = s.Usage
		default:
			errs = append(errs, fmt.Errorf("unknown record %q", key))
			continue
		}
		if err := store.Save(key, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadState reads a whole session. A missing files record means the session
// was never saved and yields ErrNoSession; other missing records take their
// fresh-session defaults.
func LoadState(store Store, id string) (State, error) {
	var files vfs.Tree
	if err := store.Load(KeyFiles, &files); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return State{}, ErrNoSession
		}
		return State{}, err
	}
	s := NewState(id, files)

	var committed vfs.Tree
	if err := loadOptional(store, KeyCommitted, &committed); err != nil {
		return State{}, err
	}
	if committed != nil {
		s.Committed = committed
	}

	if err := loadOptional(store, KeyPackages, &s.Packages); err != nil {
		return State{}, err
	}

	var rm *roadmap.Roadmap
	if err := loadOptional(store, KeyRoadmap, &rm); err != nil {
		return State{}, err
	}
	s.Roadmap = rm

	var srv serverRecord
	if err := loadOptional(store, KeyServer, &srv); err != nil {
		return State{}, err
	}
	s.Server, s.ServerPreview = srv.Kind, srv.Preview

	var history []generator.Message
	if err := loadOptional(store, KeyHistory, &history); err != nil {
		return State{}, err
	}
	if len(history) > 0 {
		s.History = history
	}

	if err := loadOptional(store, KeyUsage, &s.Usage); err != nil {
		return State{}, err
	}
	return s, nil
}

func loadOptional(store Store, key string, v any) error {
	if err := store.Load(key, v); err != nil && !errors.Is(err, ErrNoRecord) {
		return err
	}
	return nil
}
