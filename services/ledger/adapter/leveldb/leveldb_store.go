// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package leveldb

import (
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type Store struct {
	db *leveldb.DB
}

func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		BlockCacheCapacity: 16 * opt.MiB,
		WriteBuffer:        8 * opt.MiB,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening leveldb at %s", path)
	}
	return &Store{db: db}, nil
}

// OpenInMemory backs leveldb with memory storage, for tests.
func OpenInMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed opening in-memory leveldb")
	}
	return &Store{db: db}, nil
}

func (s *Store) BeginRead() (ledger.ReadTransaction, error) {
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return nil, errors.Wrap(err, "failed taking leveldb snapshot")
	}
	return ledger.NewReadTransaction(&snapshotReader{snap: snap}), nil
}

func (s *Store) Update(f func(batch ledger.Batch) error) error {
	b := new(leveldb.Batch)
	if err := f(ledger.NewBatch(&batchWriter{batch: b})); err != nil {
		return err
	}
	return errors.Wrap(s.db.Write(b, nil), "failed writing leveldb batch")
}

func (s *Store) Close() error {
	return s.db.Close()
}

type batchWriter struct {
	batch *leveldb.Batch
}

func (w *batchWriter) Put(key []byte, value []byte) error {
	w.batch.Put(key, value)
	return nil
}

type snapshotReader struct {
	snap *leveldb.Snapshot
}

func (r *snapshotReader) Get(key []byte) ([]byte, bool, error) {
	value, err := r.snap.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *snapshotReader) Iterate(prefix []byte, start []byte, fn func(key []byte, value []byte) (bool, error)) error {
	it := r.snap.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	for ok := it.Seek(start); ok; ok = it.Next() {
		more, err := fn(it.Key(), it.Value())
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	return it.Error()
}

func (r *snapshotReader) Release() {
	r.snap.Release()
}
