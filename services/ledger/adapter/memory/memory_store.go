// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"bytes"
	"github.com/google/btree"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/pkg/errors"
	"sync"
)

type item struct {
	key   []byte
	value []byte
}

func itemLess(a, b item) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Store keeps the ledger in a copy-on-write btree; every read transaction works on its own clone.
type Store struct {
	mu struct {
		sync.Mutex
		tree   *btree.BTreeG[item]
		closed bool
	}
}

func NewStore() *Store {
	s := &Store{}
	s.mu.tree = btree.NewG[item](32, itemLess)
	return s
}

func (s *Store) BeginRead() (ledger.ReadTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mu.closed {
		return nil, errors.New("store is closed")
	}
	return ledger.NewReadTransaction(&snapshot{tree: s.mu.tree.Clone()}), nil
}

func (s *Store) Update(f func(batch ledger.Batch) error) error {
	staged := &stagingWriter{}
	if err := f(ledger.NewBatch(staged)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mu.closed {
		return errors.New("store is closed")
	}
	for _, i := range staged.items {
		s.mu.tree.ReplaceOrInsert(i)
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mu.closed = true
	return nil
}

type stagingWriter struct {
	items []item
}

func (w *stagingWriter) Put(key []byte, value []byte) error {
	w.items = append(w.items, item{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})
	return nil
}

type snapshot struct {
	tree *btree.BTreeG[item]
}

func (s *snapshot) Get(key []byte) ([]byte, bool, error) {
	i, found := s.tree.Get(item{key: key})
	return i.value, found, nil
}

func (s *snapshot) Iterate(prefix []byte, start []byte, fn func(key []byte, value []byte) (bool, error)) error {
	var err error
	s.tree.AscendGreaterOrEqual(item{key: start}, func(i item) bool {
		if !bytes.HasPrefix(i.key, prefix) {
			return false
		}
		var more bool
		more, err = fn(i.key, i.value)
		return err == nil && more
	})
	return err
}

func (s *snapshot) Release() {
	s.tree = nil
}
