// Package state persists the mapping from document titles to Notion page
// ids between runs, so pages created by one run are reused by the next.
package state

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// stateDirPerm is the permission mode for the state directory.
	stateDirPerm = fs.FileMode(0o700)

	// stateFilePerm is the permission mode for the state database file.
	stateFilePerm = fs.FileMode(0o600)

	// stateOpenTimeout is the maximum time to wait for the bolt database lock.
	stateOpenTimeout = 5 * time.Second
)

var (
	appBucket  = []byte("app")
	lastRunKey = []byte("last_run")
)

func pagesBucket(rootID string) []byte {
	return []byte("root:" + rootID + ":pages")
}

func metaBucket(rootID string) []byte {
	return []byte("root:" + rootID + ":meta")
}

// Destination records the page a document title syncs to.
type Destination struct {
	Title     string    `json:"title"`
	PageID    string    `json:"page_id"`
	Path      string    `json:"path,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunRecord summarizes the most recent run against a root page.
type RunRecord struct {
	Status       string    `json:"status"`
	UpdatedPages []string  `json:"updated_pages"`
	Errors       []string  `json:"errors,omitempty"`
	FinishedAt   time.Time `json:"finished_at"`
}

// State wraps a bbolt database holding per-root destination maps.
type State struct {
	db *bolt.DB
}

// LoadAt opens a state database at the given path, creating it and its
// directory if they do not exist.
func LoadAt(path string) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(path), stateDirPerm); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := bolt.Open(path, stateFilePerm, &bolt.Options{Timeout: stateOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(appBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing state db: %w", err)
	}

	return &State{db: db}, nil
}

// Close closes the database.
func (s *State) Close() error {
	return s.db.Close()
}

// AllDestinations returns every recorded destination under rootID, keyed
// by title.
func (s *State) AllDestinations(rootID string) (map[string]Destination, error) {
	result := make(map[string]Destination)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(pagesBucket(rootID))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var d Destination
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("decoding destination %q: %w", k, err)
			}

			result[string(k)] = d

			return nil
		})
	})

	return result, err
}

// GetDestination returns the destination recorded for a title, or nil.
func (s *State) GetDestination(rootID, title string) (*Destination, error) {
	var d *Destination

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(pagesBucket(rootID))
		if b == nil {
			return nil
		}

		v := b.Get([]byte(title))
		if v == nil {
			return nil
		}

		d = &Destination{}

		return json.Unmarshal(v, d)
	})

	return d, err
}

// SetDestination records the page a title syncs to under rootID.
func (s *State) SetDestination(rootID string, d Destination) error {
	if d.Title == "" {
		return fmt.Errorf("destination has no title")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(pagesBucket(rootID))
		if err != nil {
			return err
		}

		data, err := json.Marshal(d)
		if err != nil {
			return err
		}

		return b.Put([]byte(d.Title), data)
	})
}

// DeleteDestination forgets the page recorded for a title.
func (s *State) DeleteDestination(rootID, title string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(pagesBucket(rootID))
		if b == nil {
			return nil
		}

		return b.Delete([]byte(title))
	})
}

// LastRun returns the record of the most recent run under rootID, or nil.
func (s *State) LastRun(rootID string) (*RunRecord, error) {
	var rec *RunRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket(rootID))
		if b == nil {
			return nil
		}

		v := b.Get(lastRunKey)
		if v == nil {
			return nil
		}

		rec = &RunRecord{}

		return json.Unmarshal(v, rec)
	})

	return rec, err
}

// SetLastRun stores the record of a finished run under rootID.
func (s *State) SetLastRun(rootID string, rec RunRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(metaBucket(rootID))
		if err != nil {
			return err
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		return b.Put(lastRunKey, data)
	})
}
