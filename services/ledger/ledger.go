// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"github.com/orbs-network/orbs-election-scheduler/primitives"
)

// Store hands out consistent read views of the ledger.
type Store interface {
	BeginRead() (ReadTransaction, error)
	Close() error
}

// WritableStore is implemented by the adapters; scheduling code only reads.
type WritableStore interface {
	Store
	Update(func(batch Batch) error) error
}

// ReadTransaction is a point-in-time view. Release must be called exactly once.
type ReadTransaction interface {
	Account(account primitives.Account) (primitives.AccountInfo, bool, error)
	ConfirmationHeight(account primitives.Account) (primitives.ConfirmationHeightInfo, error)
	Block(hash primitives.Hash) (*primitives.Block, bool, error)
	Successor(hash primitives.Hash) (primitives.Hash, bool, error)
	Weight(representative primitives.Account) (primitives.Amount, error)

	// ForEachAccount visits accounts in ascending order starting at from (inclusive), at most limit of them.
	// next is where a following call should resume; more is false once the table end was reached.
	ForEachAccount(from primitives.Account, limit int, fn func(account primitives.Account, info primitives.AccountInfo) error) (next primitives.Account, more bool, err error)

	Release()
}

type Batch interface {
	PutBlock(block *primitives.Block) error
	PutAccount(account primitives.Account, info primitives.AccountInfo) error
	PutConfirmationHeight(account primitives.Account, info primitives.ConfirmationHeightInfo) error
	PutWeight(representative primitives.Account, weight primitives.Amount) error
}
