// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package primitives

import "math"

// Block is the immutable view of a ledger block this node schedules elections for.
type Block struct {
	Hash     Hash
	Account  Account
	Previous Hash
	Balance  Amount
	Height   uint64
}

func (b *Block) IsOpen() bool {
	return b.Previous.IsZero()
}

func (b *Block) Root() Root {
	if b.IsOpen() {
		return b.Account.Root()
	}
	return b.Previous.Root()
}

func (b *Block) QualifiedRoot() QualifiedRoot {
	return QualifiedRoot{Root: b.Root(), Previous: b.Previous}
}

// FinalVoteTimestamp marks a vote as final.
const FinalVoteTimestamp = math.MaxUint64

type Vote struct {
	Representative Account
	Timestamp      uint64
	Hashes         []Hash
}

func (v *Vote) IsFinal() bool {
	return v.Timestamp == FinalVoteTimestamp
}

type AccountInfo struct {
	Head       Hash
	OpenBlock  Hash
	Balance    Amount
	BlockCount uint64
	Modified   uint64
}

type ConfirmationHeightInfo struct {
	Height   uint64
	Frontier Hash
}
