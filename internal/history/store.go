package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aipster/internal/config"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

var bucketName = []byte("actions")

// keyLayout sorts lexically in time order.
const keyLayout = "20060102T150405.000000000"

// ErrNoBucket is returned when the actions bucket is missing.
var ErrNoBucket = errors.New("history bucket not found")

// Store keeps performed actions in a bbolt database, keyed by time.
type Store struct {
	db *bbolt.DB
}

// Open opens the history database in the data directory.
func Open() (*Store, error) {
	return OpenAt(config.HistoryPath())
}

// OpenAt opens or creates the history database at path.
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history database: %w", err)
	}

	return &Store{db: db}, nil
}

// Save records entry in the database at path and closes it again, so the
// file lock is only held while writing.
func Save(path string, entry *Entry) error {
	store, err := OpenAt(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(entry)
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func entryKey(ts time.Time, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s/%08d", ts.UTC().Format(keyLayout), seq))
}

func actions(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	b := tx.Bucket(bucketName)
	if b == nil {
		return nil, ErrNoBucket
	}
	return b, nil
}

// Record appends entry. Entries sharing a timestamp are kept apart by the
// bucket sequence.
func (s *Store) Record(entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := actions(tx)
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(entryKey(entry.Timestamp, seq), data)
	})
}

// scan walks entries newest first until fn returns false. Undecodable
// records are skipped.
func (s *Store) scan(fn func(Entry) bool) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b, err := actions(tx)
		if err != nil {
			return err
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var e Entry
			if json.Unmarshal(v, &e) != nil {
				continue
			}
			if !fn(e) {
				return nil
			}
		}
		return nil
	})
}

// List returns up to limit entries, newest first. A limit of 0 or less
// returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	return s.collect(limit, func(Entry) bool { return true })
}

// ForPackage returns the entries for one package, newest first.
func (s *Store) ForPackage(name string, limit int) ([]Entry, error) {
	return s.collect(limit, func(e Entry) bool { return e.Package == name })
}

func (s *Store) collect(limit int, keep func(Entry) bool) ([]Entry, error) {
	var entries []Entry
	err := s.scan(func(e Entry) bool {
		if keep(e) {
			entries = append(entries, e)
		}
		return limit <= 0 || len(entries) < limit
	})
	return entries, err
}

// Last returns the most recent entry, or nil when there is none.
func (s *Store) Last() (*Entry, error) {
	entries, err := s.List(1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := actions(tx)
		if err != nil {
			return err
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}

// Clear removes every entry.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && !errors.Is(err, berrors.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
}

// Prune removes entries older than maxAge and reports how many went.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	cutoff := []byte(time.Now().Add(-maxAge).UTC().Format(keyLayout))

	var expired [][]byte
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := actions(tx)
		if err != nil {
			return err
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil && bytes.Compare(k, cutoff) < 0; k, _ = c.Next() {
			expired = append(expired, append([]byte(nil), k...))
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(expired), nil
}
