// Package jsonfile persists each collection as one pretty-printed JSON
// array under the data directory, matching the layout the frontend and
// any existing data files already use.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hifood/hifood-server/internal/store"
)

type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create data dir: %w", err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// lock returns the per-collection mutex, creating it on first use.
// Serializing load-mutate-save within the process avoids the in-process
// lost-update race; other processes writing the same files still race.
func (s *Store) lock(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	return l
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// read loads the backing file. Missing or unparsable files read as an
// empty collection, never as an error.
func (s *Store) read(collection string) []store.Record {
	raw, err := os.ReadFile(s.path(collection))
	if err != nil || len(raw) == 0 {
		return nil
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil
	}
	recs := make([]store.Record, 0, len(docs))
	for _, d := range docs {
		var idHolder struct {
			ID string `json:"id"`
		}
		// Sessions carry their key in "token" instead of "id".
		if err := json.Unmarshal(d, &idHolder); err != nil {
			continue
		}
		id := idHolder.ID
		if id == "" {
			var tokenHolder struct {
				Token string `json:"token"`
			}
			_ = json.Unmarshal(d, &tokenHolder)
			id = tokenHolder.Token
		}
		recs = append(recs, store.Record{ID: id, Data: d})
	}
	return recs
}

// write rewrites the backing file through a temp file and rename so a
// crash mid-write cannot truncate the collection.
func (s *Store) write(collection string, recs []store.Record) error {
	docs := make([]json.RawMessage, len(recs))
	for i, r := range recs {
		docs[i] = r.Data
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", collection, err)
	}
	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: temp file for %s: %w", collection, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: write %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: close %s: %w", collection, err)
	}
	if err := os.Rename(tmpName, s.path(collection)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: rename %s: %w", collection, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([]store.Record, error) {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	return s.read(collection), nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	for _, r := range s.read(collection) {
		if r.ID == id {
			return r, nil
		}
	}
	return store.Record{}, store.ErrNotFound
}

func (s *Store) Upsert(ctx context.Context, collection string, rec store.Record) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	recs := s.read(collection)
	for i, r := range recs {
		if r.ID == rec.ID {
			recs[i] = rec
			return s.write(collection, recs)
		}
	}
	return s.write(collection, append(recs, rec))
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	recs := s.read(collection)
	kept := recs[:0]
	for _, r := range recs {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(recs) {
		return store.ErrNotFound
	}
	return s.write(collection, kept)
}

func (s *Store) Replace(ctx context.Context, collection string, recs []store.Record) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	return s.write(collection, recs)
}
