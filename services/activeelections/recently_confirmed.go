// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package activeelections

import (
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"sync"
)

type ConfirmedEntry struct {
	Root primitives.QualifiedRoot
	Hash primitives.Hash
}

// RecentlyConfirmed is a bounded FIFO of finished elections, looked up by block hash or root.
// Entries are never refreshed, so the LRU order is insertion order.
type RecentlyConfirmed struct {
	mu struct {
		sync.Mutex
		byHash *simplelru.LRU[primitives.Hash, primitives.QualifiedRoot]
		byRoot map[primitives.QualifiedRoot]primitives.Hash
	}
}

func NewRecentlyConfirmed(maxSize int) *RecentlyConfirmed {
	c := &RecentlyConfirmed{}
	c.mu.byRoot = make(map[primitives.QualifiedRoot]primitives.Hash)
	lru, err := simplelru.NewLRU[primitives.Hash, primitives.QualifiedRoot](maxSize, func(_ primitives.Hash, root primitives.QualifiedRoot) {
		delete(c.mu.byRoot, root)
	})
	if err != nil {
		panic(err)
	}
	c.mu.byHash = lru
	return c
}

// Put records a finished election. Duplicate roots or hashes are ignored.
func (c *RecentlyConfirmed) Put(root primitives.QualifiedRoot, hash primitives.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.mu.byRoot[root]; exists {
		return false
	}
	if c.mu.byHash.Contains(hash) {
		return false
	}
	c.mu.byRoot[root] = hash
	c.mu.byHash.Add(hash, root)
	return true
}

func (c *RecentlyConfirmed) Erase(hash primitives.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.byHash.Remove(hash)
}

func (c *RecentlyConfirmed) ExistsHash(hash primitives.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.byHash.Contains(hash)
}

func (c *RecentlyConfirmed) ExistsRoot(root primitives.QualifiedRoot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.mu.byRoot[root]
	return exists
}

func (c *RecentlyConfirmed) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.byHash.Len()
}

func (c *RecentlyConfirmed) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.byHash.Purge()
}

// Back returns the most recently recorded entry.
func (c *RecentlyConfirmed) Back() (ConfirmedEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.mu.byHash.Keys()
	if len(keys) == 0 {
		return ConfirmedEntry{}, false
	}
	hash := keys[len(keys)-1]
	root, _ := c.mu.byHash.Peek(hash)
	return ConfirmedEntry{Root: root, Hash: hash}, true
}
