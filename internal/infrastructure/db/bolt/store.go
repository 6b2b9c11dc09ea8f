// Package bolt implements the local deployment mode: a single bbolt file
// holds the profile directory, the per-conversation message logs, and the
// event catalog, mirroring the keyed-record layout the app originally kept in
// browser storage.
package bolt

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketProfiles      = []byte("profiles")
	bucketIDIndex       = []byte("profile_ids")
	bucketEmailIndex    = []byte("profile_emails")
	bucketConversations = []byte("conversations")
	bucketEvents        = []byte("events")
)

// Store wraps the bbolt database shared by the local-mode repositories.
type Store struct {
	db *bolt.DB
}

// Open initialises the bbolt file and ensures all buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketProfiles, bucketIDIndex, bucketEmailIndex, bucketConversations, bucketEvents} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}

// itob encodes a bucket sequence number as a big-endian key, so cursor order
// equals insertion order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
