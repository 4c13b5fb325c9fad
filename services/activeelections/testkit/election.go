// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package testkit

import (
	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"sync"
)

type RecordedVote struct {
	Representative primitives.Account
	Timestamp      uint64
	Hash           primitives.Hash
}

// Election records the votes it receives and finishes only when told to.
type Election struct {
	block    *primitives.Block
	behavior activeelections.Behavior

	mu struct {
		sync.Mutex
		status activeelections.ElectionStatus
		winner *primitives.Block
		votes  []RecordedVote
	}
}

func NewElection(block *primitives.Block, behavior activeelections.Behavior) *Election {
	return &Election{block: block, behavior: behavior}
}

func (e *Election) QualifiedRoot() primitives.QualifiedRoot {
	return e.block.QualifiedRoot()
}

func (e *Election) Candidate() *primitives.Block {
	return e.block
}

func (e *Election) Behavior() activeelections.Behavior {
	return e.behavior
}

func (e *Election) Vote(representative primitives.Account, timestamp uint64, hash primitives.Hash) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mu.votes = append(e.mu.votes, RecordedVote{Representative: representative, Timestamp: timestamp, Hash: hash})
}

func (e *Election) Votes() []RecordedVote {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RecordedVote(nil), e.mu.votes...)
}

func (e *Election) Cancel() {
	e.finish(activeelections.StatusCancelled, nil)
}

// Confirm marks the candidate as the winner; the cleanup loop picks it up.
func (e *Election) Confirm() {
	e.finish(activeelections.StatusConfirmed, e.block)
}

func (e *Election) Expire() {
	e.finish(activeelections.StatusExpired, nil)
}

func (e *Election) finish(status activeelections.ElectionStatus, winner *primitives.Block) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mu.status == activeelections.StatusActive {
		e.mu.status = status
		e.mu.winner = winner
	}
}

func (e *Election) Status() activeelections.ElectionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mu.status
}

func (e *Election) Winner() *primitives.Block {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mu.winner
}

// Factory creates recording elections and remembers every one of them.
type Factory struct {
	mu struct {
		sync.Mutex
		created []*Election
		byHash  map[primitives.Hash]*Election
	}
}

func NewFactory() *Factory {
	f := &Factory{}
	f.mu.byHash = make(map[primitives.Hash]*Election)
	return f
}

func (f *Factory) NewElection(block *primitives.Block, behavior activeelections.Behavior) activeelections.Election {
	election := NewElection(block, behavior)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mu.created = append(f.mu.created, election)
	f.mu.byHash[block.Hash] = election
	return election
}

func (f *Factory) Created() []*Election {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Election(nil), f.mu.created...)
}

// Find returns the most recent election created for hash.
func (f *Factory) Find(hash primitives.Hash) (*Election, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, found := f.mu.byHash[hash]
	return e, found
}

type MockElectionFactory struct {
	mock.Mock
}

func (m *MockElectionFactory) NewElection(block *primitives.Block, behavior activeelections.Behavior) activeelections.Election {
	ret := m.Called(block, behavior)
	if out := ret.Get(0); out != nil {
		return out.(activeelections.Election)
	}
	return nil
}

// ExpectElections makes the mock create recording elections, expecting exactly times calls.
func (m *MockElectionFactory) ExpectElections(times int) {
	m.When("NewElection", mock.Any, mock.Any).Times(times).
		Call(func(block *primitives.Block, behavior activeelections.Behavior) activeelections.Election {
			return NewElection(block, behavior)
		})
}
