// Package fsm provides the durable conversation state store backing
// multi-step dialogs. Each entry is keyed by (bot, chat, user, thread)
// and holds an optional state tag plus a string-keyed data bag, stored
// as JSON in BadgerDB so dialog progress survives process restarts.
package fsm

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
)

// Key identifies one conversation
type Key struct {
	BotID    int64
	ChatID   int64
	UserID   int64
	ThreadID int64
}

// String serializes the key for indexing
func (k Key) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", k.BotID, k.ChatID, k.UserID, k.ThreadID)
}

// Entry is one stored conversation row, used for operational inspection
type Entry struct {
	Key   string
	State string
	Data  map[string]interface{}
}

// record is the persisted JSON shape: {"state": string|null, "data": {...}}
type record struct {
	State *string                `json:"state"`
	Data  map[string]interface{} `json:"data"`
}

// Store is a durable key -> (state, data) map.
// Read-modify-write operations are serialized by a mutex so concurrent
// updates to the same key cannot drop each other's changes.
type Store struct {
	db *badger.DB
	mu sync.Mutex
}

// Open opens (or creates) the store in the given directory
func Open(dir string) (*Store, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	opts := badger.DefaultOptions(absPath)
	opts.Logger = nil // Disable Badger's internal logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetState returns the state tag for the key, or "" if unset
func (s *Store) GetState(key Key) (string, error) {
	rec, found, err := s.load(key)
	if err != nil || !found || rec.State == nil {
		return "", err
	}
	return *rec.State, nil
}

// SetState sets the state tag. An empty state clears the tag but keeps
// the data bag intact.
func (s *Store) SetState(key Key, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, _, err := s.load(key)
	if err != nil {
		return err
	}
	if state == "" {
		rec.State = nil
	} else {
		rec.State = &state
	}
	return s.save(key, rec)
}

// GetData returns the data bag for the key, never nil
func (s *Store) GetData(key Key) (map[string]interface{}, error) {
	rec, _, err := s.load(key)
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

// SetData replaces the data bag for the key
func (s *Store) SetData(key Key, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, _, err := s.load(key)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	rec.Data = data
	return s.save(key, rec)
}

// UpdateData shallow-merges partial into the data bag and returns the
// merged result. The read-modify-write is atomic per store.
func (s *Store) UpdateData(key Key, partial map[string]interface{}) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, _, err := s.load(key)
	if err != nil {
		return nil, err
	}
	for k, v := range partial {
		rec.Data[k] = v
	}
	if err := s.save(key, rec); err != nil {
		return nil, err
	}
	return rec.Data, nil
}

// ResetState clears the state tag, keeping data
func (s *Store) ResetState(key Key) error {
	return s.SetState(key, "")
}

// ResetData clears the data bag, keeping the state tag
func (s *Store) ResetData(key Key) error {
	return s.SetData(key, map[string]interface{}{})
}

// ResetAll deletes the row entirely
func (s *Store) ResetAll(key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key.String()))
	})
}

// ListAll returns every stored conversation row
func (s *Store) ListAll() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			keyStr := string(item.Key())
			err := item.Value(func(val []byte) error {
				var rec record
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("corrupt state row %s: %w", keyStr, err)
				}
				entry := Entry{Key: keyStr, Data: rec.Data}
				if rec.State != nil {
					entry.State = *rec.State
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// load reads the record for the key, returning an empty record when the
// row does not exist
func (s *Store) load(key Key) (record, bool, error) {
	rec := record{Data: map[string]interface{}{}}
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return rec, false, fmt.Errorf("failed to read state: %w", err)
	}
	if rec.Data == nil {
		rec.Data = map[string]interface{}{}
	}
	return rec, found, nil
}

func (s *Store) save(key Key, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key.String()), data)
	})
}
