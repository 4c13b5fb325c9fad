// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package hinting

import (
	"github.com/google/btree"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"time"
)

type Voter struct {
	Representative primitives.Account
	Timestamp      uint64
	Weight         primitives.Amount
}

// Entry accumulates the votes seen for a block that has no election.
type Entry struct {
	Hash       primitives.Hash
	Arrival    time.Time
	Voters     []Voter
	Tally      primitives.Amount
	FinalTally primitives.Amount

	seq     uint64
	ready   bool
	waiting bool // qualified but its block is not in the ledger yet
}

func (e *Entry) clone() Entry {
	c := *e
	c.Voters = append([]Voter(nil), e.Voters...)
	return c
}

// vote applies last-writer-wins per representative. Returns false when nothing changed.
func (e *Entry) vote(representative primitives.Account, timestamp uint64, weight primitives.Amount, maxVoters int) bool {
	final := timestamp == primitives.FinalVoteTimestamp
	for i := range e.Voters {
		v := &e.Voters[i]
		if v.Representative != representative {
			continue
		}
		if timestamp <= v.Timestamp {
			return false
		}
		wasFinal := v.Timestamp == primitives.FinalVoteTimestamp
		e.Tally = e.Tally.Sub(v.Weight).Add(weight)
		if wasFinal {
			e.FinalTally = e.FinalTally.Sub(v.Weight)
		}
		if final {
			e.FinalTally = e.FinalTally.Add(weight)
		}
		v.Timestamp = timestamp
		v.Weight = weight
		return true
	}

	if len(e.Voters) >= maxVoters {
		return false
	}
	e.Voters = append(e.Voters, Voter{Representative: representative, Timestamp: timestamp, Weight: weight})
	e.Tally = e.Tally.Add(weight)
	if final {
		e.FinalTally = e.FinalTally.Add(weight)
	}
	return true
}

// entries orders by tally, then arrival, so the first entry is the one to evict.
func entryLess(a, b *Entry) bool {
	if c := a.Tally.Cmp(b.Tally); c != 0 {
		return c < 0
	}
	return a.seq < b.seq
}

// cache is not synchronized; the service guards it.
type cache struct {
	seq     uint64
	byHash  map[primitives.Hash]*Entry
	byTally *btree.BTreeG[*Entry]
}

func newCache() *cache {
	return &cache{
		byHash:  make(map[primitives.Hash]*Entry),
		byTally: btree.NewG[*Entry](16, entryLess),
	}
}

func (c *cache) len() int {
	return len(c.byHash)
}

func (c *cache) get(hash primitives.Hash) (*Entry, bool) {
	e, found := c.byHash[hash]
	return e, found
}

// getOrCreate makes room by evicting the lowest tally entry. Returns the evicted entry if any.
func (c *cache) getOrCreate(hash primitives.Hash, now time.Time, maxSize int) (*Entry, *Entry) {
	if e, found := c.byHash[hash]; found {
		return e, nil
	}

	var evicted *Entry
	if len(c.byHash) >= maxSize {
		if lowest, found := c.byTally.DeleteMin(); found {
			delete(c.byHash, lowest.Hash)
			evicted = lowest
		}
	}

	c.seq++
	e := &Entry{Hash: hash, Arrival: now, seq: c.seq}
	c.byHash[hash] = e
	c.byTally.ReplaceOrInsert(e)
	return e, evicted
}

// update reindexes e around a change of its tally.
func (c *cache) update(e *Entry, change func() bool) bool {
	c.byTally.Delete(e)
	changed := change()
	c.byTally.ReplaceOrInsert(e)
	return changed
}

func (c *cache) erase(hash primitives.Hash) bool {
	e, found := c.byHash[hash]
	if !found {
		return false
	}
	delete(c.byHash, hash)
	c.byTally.Delete(e)
	return true
}

func (c *cache) clear() {
	c.byHash = make(map[primitives.Hash]*Entry)
	c.byTally.Clear(false)
}

func (c *cache) each(f func(e *Entry)) {
	for _, e := range c.byHash {
		f(e)
	}
}
