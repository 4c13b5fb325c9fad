// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package activeelections

import (
	"github.com/google/btree"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"sync"
)

type Entry struct {
	Election Election
	Root     primitives.QualifiedRoot
	Behavior Behavior
	Tier     Tier
	Priority Priority
}

type entry struct {
	Entry
	seq     uint64
	onErase EraseCallback
}

func entryLess(a, b *entry) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

type tierIndex struct {
	count      int
	byPriority *btree.BTreeG[*entry]
}

type behaviorIndex struct {
	count int
	tiers map[Tier]*tierIndex
}

// Registry indexes every active election by identity, by root, by behavior and tier, and by priority
// within a tier. One lock covers all views so no reader observes a partially applied change.
type Registry struct {
	mu struct {
		sync.RWMutex
		seq        uint64
		byElection map[Election]*entry
		byRoot     map[primitives.QualifiedRoot]*entry
		byBehavior map[Behavior]*behaviorIndex
	}
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

// must be called with the lock held, or before the registry is shared
func (r *Registry) reset() {
	r.mu.byElection = make(map[Election]*entry)
	r.mu.byRoot = make(map[primitives.QualifiedRoot]*entry)
	r.mu.byBehavior = make(map[Behavior]*behaviorIndex)
}

// Insert fails when an election already exists for the same qualified root.
func (r *Registry) Insert(election Election, behavior Behavior, tier Tier, priority Priority, onErase EraseCallback) bool {
	root := election.QualifiedRoot()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mu.byRoot[root]; exists {
		return false
	}
	if _, exists := r.mu.byElection[election]; exists {
		assertf("election for %s registered under a different root", root)
		return false
	}

	r.mu.seq++
	e := &entry{
		Entry:   Entry{Election: election, Root: root, Behavior: behavior, Tier: tier, Priority: priority},
		seq:     r.mu.seq,
		onErase: onErase,
	}

	r.mu.byElection[election] = e
	r.mu.byRoot[root] = e

	bi, ok := r.mu.byBehavior[behavior]
	if !ok {
		bi = &behaviorIndex{tiers: make(map[Tier]*tierIndex)}
		r.mu.byBehavior[behavior] = bi
	}
	ti, ok := bi.tiers[tier]
	if !ok {
		ti = &tierIndex{byPriority: btree.NewG[*entry](8, entryLess)}
		bi.tiers[tier] = ti
	}
	ti.byPriority.ReplaceOrInsert(e)
	ti.count++
	bi.count++

	return true
}

// Erase removes the election from every view and then runs its erase callback.
func (r *Registry) Erase(election Election) bool {
	e := r.remove(election)
	if e == nil {
		return false
	}
	if e.onErase != nil {
		e.onErase(election)
	}
	return true
}

func (r *Registry) remove(election Election) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.mu.byElection[election]
	if !ok {
		return nil
	}
	r.unindex(e)
	return e
}

// must be called with the lock held
func (r *Registry) unindex(e *entry) {
	delete(r.mu.byElection, e.Election)
	delete(r.mu.byRoot, e.Root)

	bi := r.mu.byBehavior[e.Behavior]
	ti := bi.tiers[e.Tier]
	if _, removed := ti.byPriority.Delete(e); !removed {
		assertf("election %s missing from its priority index", e.Root)
	}
	ti.count--
	bi.count--

	if ti.count == 0 {
		delete(bi.tiers, e.Tier)
	}
	if bi.count == 0 {
		delete(r.mu.byBehavior, e.Behavior)
	}
}

func (r *Registry) Exists(election Election) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.mu.byElection[election]
	return ok
}

func (r *Registry) ExistsRoot(root primitives.QualifiedRoot) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.mu.byRoot[root]
	return ok
}

func (r *Registry) Lookup(root primitives.QualifiedRoot) (Election, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.mu.byRoot[root]; ok {
		return e.Election, true
	}
	return nil, false
}

func (r *Registry) Info(election Election) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.mu.byElection[election]; ok {
		return e.Entry, true
	}
	return Entry{}, false
}

// List returns a snapshot in insertion order.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*entry, 0, len(r.mu.byElection))
	for _, e := range r.mu.byElection {
		entries = append(entries, e)
	}
	sortBySeq(entries)

	result := make([]Entry, len(entries))
	for i, e := range entries {
		result[i] = e.Entry
	}
	return result
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mu.byElection)
}

func (r *Registry) SizeBehavior(behavior Behavior) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if bi, ok := r.mu.byBehavior[behavior]; ok {
		return bi.count
	}
	return 0
}

func (r *Registry) SizeTier(behavior Behavior, tier Tier) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if bi, ok := r.mu.byBehavior[behavior]; ok {
		if ti, ok := bi.tiers[tier]; ok {
			return ti.count
		}
	}
	return 0
}

// Top returns the most urgent election of a behavior and tier.
func (r *Registry) Top(behavior Behavior, tier Tier) (Election, Priority, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if bi, ok := r.mu.byBehavior[behavior]; ok {
		if ti, ok := bi.tiers[tier]; ok {
			if e, ok := ti.byPriority.Min(); ok {
				return e.Election, e.Priority, true
			}
		}
	}
	return nil, 0, false
}

// Clear erases every election, running each erase callback.
func (r *Registry) Clear() {
	r.mu.Lock()
	erased := make([]*entry, 0, len(r.mu.byElection))
	for _, e := range r.mu.byElection {
		erased = append(erased, e)
	}
	r.reset()
	r.mu.Unlock()

	sortBySeq(erased)
	for _, e := range erased {
		if e.onErase != nil {
			e.onErase(e.Election)
		}
	}
}
