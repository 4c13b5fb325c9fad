// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package scheduler

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/btree"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"sync"
)

// Elections is the part of the active elections aggregate the schedulers depend on.
type Elections interface {
	Insert(block *primitives.Block, behavior activeelections.Behavior, tier activeelections.Tier, priority activeelections.Priority, onErase activeelections.EraseCallback) activeelections.InsertResult
	Vacancy(behavior activeelections.Behavior) int64
	Cancel(election activeelections.Election) bool
	Exists(election activeelections.Election) bool
	ActiveRoot(root primitives.QualifiedRoot) bool
	RecentlyConfirmed() *activeelections.RecentlyConfirmed
}

type setEntry struct {
	election activeelections.Election
	root     primitives.QualifiedRoot
	priority activeelections.Priority
	seq      uint64
}

func setEntryLess(a, b *setEntry) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

// ElectionSet admits elections for one behavior and tier. It always has room for reservedSize
// elections and may grow past that while the behavior has global vacancy.
type ElectionSet struct {
	elections    Elections
	behavior     activeelections.Behavior
	tier         activeelections.Tier
	reservedSize int

	mu struct {
		sync.Mutex
		seq        uint64
		byRoot     map[primitives.QualifiedRoot]*setEntry
		byPriority *btree.BTreeG[*setEntry]
		// elections erased before they were recorded
		erased mapset.Set[activeelections.Election]
	}
}

func NewElectionSet(elections Elections, behavior activeelections.Behavior, tier activeelections.Tier, reservedSize int) *ElectionSet {
	s := &ElectionSet{
		elections:    elections,
		behavior:     behavior,
		tier:         tier,
		reservedSize: reservedSize,
	}
	s.mu.byRoot = make(map[primitives.QualifiedRoot]*setEntry)
	s.mu.byPriority = btree.NewG[*setEntry](8, setEntryLess)
	s.mu.erased = mapset.NewThreadUnsafeSet[activeelections.Election]()
	return s
}

func (s *ElectionSet) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mu.byRoot)
}

func (s *ElectionSet) Contains(root primitives.QualifiedRoot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.mu.byRoot[root]
	return found
}

func (s *ElectionSet) Vacancy() bool {
	if s.Size() < s.reservedSize {
		return true
	}
	return s.elections.Vacancy(s.behavior) > 0
}

// VacancyFor also admits a candidate that is more urgent than the least urgent admitted election.
func (s *ElectionSet) VacancyFor(priority activeelections.Priority) bool {
	if s.Vacancy() {
		return true
	}
	if victim, found := s.leastUrgent(); found {
		return priority < victim.priority
	}
	return false
}

func (s *ElectionSet) leastUrgent() (*setEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.byPriority.Max()
}

// Activate starts an election for block, first cancelling the least urgent election when the set is
// full. A candidate less urgent than everything admitted is rejected.
func (s *ElectionSet) Activate(block *primitives.Block, priority activeelections.Priority) activeelections.InsertResult {
	if !s.Vacancy() {
		victim, found := s.leastUrgent()
		if !found || priority >= victim.priority {
			return activeelections.InsertResult{Status: activeelections.Rejected}
		}
		s.elections.Cancel(victim.election)
	}

	result := s.elections.Insert(block, s.behavior, s.tier, priority, s.erase)
	if result.Status == activeelections.Created {
		s.record(result.Election, priority)
	}
	return result
}

// record is called once for every election the set created. The erase callback may run before it,
// in which case it left a tombstone that record consumes.
func (s *ElectionSet) record(election activeelections.Election, priority activeelections.Priority) {
	exists := s.elections.Exists(election)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mu.erased.Contains(election) {
		s.mu.erased.Remove(election)
		return
	}
	if !exists {
		return
	}

	s.mu.seq++
	e := &setEntry{election: election, root: election.QualifiedRoot(), priority: priority, seq: s.mu.seq}
	s.mu.byRoot[e.root] = e
	s.mu.byPriority.ReplaceOrInsert(e)
}

func (s *ElectionSet) erase(election activeelections.Election) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root := election.QualifiedRoot()
	if e, found := s.mu.byRoot[root]; found && e.election == election {
		delete(s.mu.byRoot, root)
		s.mu.byPriority.Delete(e)
		return
	}
	s.mu.erased.Add(election)
}

// Update cancels the least urgent elections while the set is above its reserved size and the
// behavior is over its global budget. Returns how many were cancelled.
func (s *ElectionSet) Update() int {
	cancelled := 0
	for s.Size() > s.reservedSize && s.elections.Vacancy(s.behavior) < 0 {
		victim, found := s.leastUrgent()
		if !found {
			break
		}
		if !s.elections.Cancel(victim.election) {
			// already erased, its callback removes it from the set
			break
		}
		cancelled++
	}
	return cancelled
}
