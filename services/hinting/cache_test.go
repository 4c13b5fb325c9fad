// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package hinting

import (
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func rep(b byte) primitives.Account {
	return primitives.Account{b}
}

func TestEntry_CountsEachRepresentativeOnce(t *testing.T) {
	e := &Entry{}

	require.True(t, e.vote(rep(1), 5, primitives.NewAmount(100), 10))
	require.False(t, e.vote(rep(1), 5, primitives.NewAmount(100), 10), "same timestamp")
	require.False(t, e.vote(rep(1), 3, primitives.NewAmount(100), 10), "older vote")
	require.True(t, e.vote(rep(1), 7, primitives.NewAmount(150), 10), "newer vote replaces weight")

	require.Len(t, e.Voters, 1)
	require.Equal(t, "150", e.Tally.String())
	require.True(t, e.FinalTally.IsZero())
}

func TestEntry_FinalVotesCountTowardsFinalTally(t *testing.T) {
	e := &Entry{}
	e.vote(rep(1), 1, primitives.NewAmount(10), 10)
	e.vote(rep(2), primitives.FinalVoteTimestamp, primitives.NewAmount(20), 10)
	e.vote(rep(1), primitives.FinalVoteTimestamp, primitives.NewAmount(10), 10)

	require.Equal(t, "30", e.Tally.String())
	require.Equal(t, "30", e.FinalTally.String())
}

func TestEntry_IgnoresVotersBeyondLimit(t *testing.T) {
	e := &Entry{}
	require.True(t, e.vote(rep(1), 1, primitives.NewAmount(1), 2))
	require.True(t, e.vote(rep(2), 1, primitives.NewAmount(1), 2))
	require.False(t, e.vote(rep(3), 1, primitives.NewAmount(1), 2))
	require.Len(t, e.Voters, 2)
	require.Equal(t, "2", e.Tally.String())
}

func TestCache_EvictsLowestTallyThenOldest(t *testing.T) {
	c := newCache()
	now := time.Now()
	add := func(hash byte, weight uint64) {
		e, _ := c.getOrCreate(primitives.Hash{hash}, now, 3)
		c.update(e, func() bool { return e.vote(rep(hash), 1, primitives.NewAmount(weight), 10) })
	}

	add(1, 50)
	add(2, 10)
	add(3, 10)

	_, evicted := c.getOrCreate(primitives.Hash{4}, now, 3)
	require.NotNil(t, evicted)
	require.Equal(t, primitives.Hash{2}, evicted.Hash, "lowest tally, earliest arrival")
	require.Equal(t, 3, c.len())

	_, found := c.get(primitives.Hash{1})
	require.True(t, found, "highest tally is retained")
}

func TestCache_UpdateKeepsTallyIndexInSync(t *testing.T) {
	c := newCache()
	now := time.Now()
	low, _ := c.getOrCreate(primitives.Hash{1}, now, 10)
	high, _ := c.getOrCreate(primitives.Hash{2}, now, 10)
	c.update(low, func() bool { return low.vote(rep(1), 1, primitives.NewAmount(5), 10) })
	c.update(high, func() bool { return high.vote(rep(1), 1, primitives.NewAmount(9), 10) })
	c.update(low, func() bool { return low.vote(rep(2), 1, primitives.NewAmount(10), 10) })

	min, _ := c.byTally.Min()
	require.Equal(t, primitives.Hash{2}, min.Hash)
	require.Equal(t, c.len(), c.byTally.Len())

	require.True(t, c.erase(primitives.Hash{2}))
	require.Equal(t, 1, c.byTally.Len())
	c.clear()
	require.Zero(t, c.len())
	require.Zero(t, c.byTally.Len())
}
