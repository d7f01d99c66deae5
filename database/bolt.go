// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blinklabs-io/utxokit/ledger/utxo"
	bolt "go.etcd.io/bbolt"
)

const DefaultBucket = "utxo"

var ErrBucketMissing = errors.New("bucket does not exist")

// BoltStore is a utxo.KeyValueStore backed by a bbolt database file
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	logger *slog.Logger
}

type BoltStoreOptionFunc func(*BoltStore)

// WithBucket overrides the bucket that entries are stored in
func WithBucket(bucket string) BoltStoreOptionFunc {
	return func(s *BoltStore) {
		s.bucket = []byte(bucket)
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) BoltStoreOptionFunc {
	return func(s *BoltStore) {
		s.logger = logger
	}
}

// Open opens (creating if needed) the database at path
func Open(path string, opts ...BoltStoreOptionFunc) (*BoltStore, error) {
	s := &BoltStore{
		bucket: []byte(DefaultBucket),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	s.db = db
	s.logger.Debug(
		"opened database",
		"component", "database",
		"path", path,
	)
	return s, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) bucketFor(tx *bolt.Tx) (*bolt.Bucket, error) {
	b := tx.Bucket(s.bucket)
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrBucketMissing, string(s.bucket))
	}
	return b, nil
}

func (s *BoltStore) Get(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := s.bucketFor(tx)
		if err != nil {
			return err
		}
		v := b.Get(key)
		if v != nil {
			// Values are only valid for the life of the transaction
			val = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *BoltStore) Set(key []byte, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := s.bucketFor(tx)
		if err != nil {
			return err
		}
		return b.Put(key, value)
	})
}

func (s *BoltStore) Delete(key []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := s.bucketFor(tx)
		if err != nil {
			return err
		}
		return b.Delete(key)
	})
}

// Write applies the batch in a single bbolt transaction
func (s *BoltStore) Write(batch *utxo.Batch) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := s.bucketFor(tx)
		if err != nil {
			return err
		}
		for _, op := range batch.Ops() {
			if op.Delete {
				if err := b.Delete(op.Key); err != nil {
					return err
				}
				continue
			}
			if err := b.Put(op.Key, op.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of stored entries
func (s *BoltStore) Len() (int, error) {
	var ret int
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := s.bucketFor(tx)
		if err != nil {
			return err
		}
		ret = b.Stats().KeyN
		return nil
	})
	return ret, err
}
