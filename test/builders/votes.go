// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package builders

import (
	"github.com/orbs-network/orbs-election-scheduler/primitives"
)

type vote struct {
	v primitives.Vote
}

func Vote() *vote {
	return &vote{v: primitives.Vote{Timestamp: 1}}
}

func (v *vote) From(representative primitives.Account) *vote {
	v.v.Representative = representative
	return v
}

func (v *vote) At(timestamp uint64) *vote {
	v.v.Timestamp = timestamp
	return v
}

func (v *vote) Final() *vote {
	v.v.Timestamp = primitives.FinalVoteTimestamp
	return v
}

func (v *vote) For(hashes ...primitives.Hash) *vote {
	v.v.Hashes = append(v.v.Hashes, hashes...)
	return v
}

func (v *vote) Build() *primitives.Vote {
	built := v.v
	built.Hashes = append([]primitives.Hash(nil), v.v.Hashes...)
	return &built
}

func Representative(seed uint64) primitives.Account {
	return AccountFromSeed(seed)
}
