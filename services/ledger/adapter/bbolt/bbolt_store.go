// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bbolt

import (
	"bytes"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"time"
)

var bucketName = []byte("ledger")

type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	// a large initial mapping keeps long scans from blocking writers on remap
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second, InitialMmapSize: 64 << 20})
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening bbolt at %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed creating ledger bucket")
	}

	return &Store{db: db}, nil
}

func (s *Store) BeginRead() (ledger.ReadTransaction, error) {
	tx, err := s.db.Begin(false)
	if err != nil {
		return nil, errors.Wrap(err, "failed starting bbolt read transaction")
	}
	return ledger.NewReadTransaction(&txReader{tx: tx, bucket: tx.Bucket(bucketName)}), nil
}

func (s *Store) Update(f func(batch ledger.Batch) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return f(ledger.NewBatch(&bucketWriter{bucket: tx.Bucket(bucketName)}))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

type bucketWriter struct {
	bucket *bolt.Bucket
}

func (w *bucketWriter) Put(key []byte, value []byte) error {
	return w.bucket.Put(key, value)
}

type txReader struct {
	tx     *bolt.Tx
	bucket *bolt.Bucket
}

// values returned by bbolt are only valid for the transaction lifetime, so they are copied out

func (r *txReader) Get(key []byte) ([]byte, bool, error) {
	value := r.bucket.Get(key)
	if value == nil {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (r *txReader) Iterate(prefix []byte, start []byte, fn func(key []byte, value []byte) (bool, error)) error {
	c := r.bucket.Cursor()
	for k, v := c.Seek(start); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		more, err := fn(k, v)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	return nil
}

func (r *txReader) Release() {
	_ = r.tx.Rollback()
}
