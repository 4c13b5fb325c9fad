// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package scheduler

import (
	"bytes"
	"github.com/google/btree"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"sync"
)

type BucketEntry struct {
	Time  uint64
	Block *primitives.Block
}

func bucketEntryLess(a, b BucketEntry) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return bytes.Compare(a.Block.Hash[:], b.Block.Hash[:]) < 0
}

// Bucket queues candidate blocks of one balance tier, oldest first. When full, the newest entry is
// dropped. A block is queued at most once.
type Bucket struct {
	tier      activeelections.Tier
	maxBlocks int
	set       *ElectionSet

	mu struct {
		sync.Mutex
		queue  *btree.BTreeG[BucketEntry]
		queued map[primitives.Hash]uint64
	}
}

func NewBucket(tier activeelections.Tier, maxBlocks int, set *ElectionSet) *Bucket {
	b := &Bucket{tier: tier, maxBlocks: maxBlocks, set: set}
	b.mu.queue = btree.NewG[BucketEntry](16, bucketEntryLess)
	b.mu.queued = make(map[primitives.Hash]uint64)
	return b
}

func (b *Bucket) Tier() activeelections.Tier {
	return b.tier
}

func (b *Bucket) Set() *ElectionSet {
	return b.set
}

// Push returns false if the block was already queued or was itself evicted for lack of room.
func (b *Bucket) Push(arrival uint64, block *primitives.Block) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.mu.queued[block.Hash]; found {
		return false
	}

	b.mu.queue.ReplaceOrInsert(BucketEntry{Time: arrival, Block: block})
	b.mu.queued[block.Hash] = arrival

	if b.mu.queue.Len() > b.maxBlocks {
		evicted, _ := b.mu.queue.DeleteMax()
		delete(b.mu.queued, evicted.Block.Hash)
		return evicted.Block.Hash != block.Hash
	}
	return true
}

func (b *Bucket) Top() (BucketEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mu.queue.Min()
}

func (b *Bucket) Pop() (BucketEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	top, found := b.mu.queue.DeleteMin()
	if found {
		delete(b.mu.queued, top.Block.Hash)
	}
	return top, found
}

func (b *Bucket) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mu.queue.Len()
}

// Available reports whether the head candidate would currently be admitted.
func (b *Bucket) Available() bool {
	top, found := b.Top()
	if !found {
		return false
	}
	return b.set.VacancyFor(activeelections.Priority(top.Time))
}

// Activate pops the head candidate and tries to start its election. A candidate that is not
// admitted is dropped; the backlog scan finds it again later.
func (b *Bucket) Activate() bool {
	top, found := b.Pop()
	if !found {
		return false
	}
	return b.set.Activate(top.Block, activeelections.Priority(top.Time)).Inserted()
}

func (b *Bucket) Update() int {
	return b.set.Update()
}

// Blocks returns the queued candidates, most urgent first.
func (b *Bucket) Blocks() []BucketEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := make([]BucketEntry, 0, b.mu.queue.Len())
	b.mu.queue.Ascend(func(e BucketEntry) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}
