// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package activeelections

import (
	"fmt"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
)

// Behavior records why an election was started; each behavior has its own capacity budget.
type Behavior int

const (
	BehaviorPriority Behavior = iota
	BehaviorManual
	BehaviorOptimistic
	BehaviorHinted
)

var Behaviors = []Behavior{BehaviorPriority, BehaviorManual, BehaviorOptimistic, BehaviorHinted}

func (b Behavior) String() string {
	switch b {
	case BehaviorPriority:
		return "priority"
	case BehaviorManual:
		return "manual"
	case BehaviorOptimistic:
		return "optimistic"
	case BehaviorHinted:
		return "hinted"
	}
	return fmt.Sprintf("behavior(%d)", int(b))
}

// Tier is the balance bucket an election was scheduled from.
type Tier int

// Priority ranks elections within a tier. Lower values are more urgent.
type Priority uint64

type ElectionStatus int

const (
	StatusActive ElectionStatus = iota
	StatusConfirmed
	StatusCancelled
	StatusExpired
)

func (s ElectionStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusConfirmed:
		return "confirmed"
	case StatusCancelled:
		return "cancelled"
	case StatusExpired:
		return "expired"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Election is the vote tallying process for one chain position. Implementations must be
// pointer types: elections are used as map keys by identity.
type Election interface {
	QualifiedRoot() primitives.QualifiedRoot
	Candidate() *primitives.Block
	Vote(representative primitives.Account, timestamp uint64, hash primitives.Hash)
	Cancel()
	Status() ElectionStatus
	Winner() *primitives.Block
}

type ElectionFactory interface {
	NewElection(block *primitives.Block, behavior Behavior) Election
}

type InsertStatus int

const (
	Created InsertStatus = iota
	Existed
	Rejected
)

func (s InsertStatus) String() string {
	switch s {
	case Created:
		return "created"
	case Existed:
		return "existed"
	}
	return "rejected"
}

type InsertResult struct {
	Election Election
	Status   InsertStatus
}

func (r InsertResult) Inserted() bool {
	return r.Status == Created
}

// EraseCallback runs once when an election leaves the registry, outside any registry lock.
type EraseCallback func(election Election)
