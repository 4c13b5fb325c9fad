// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package hinting_test

import (
	"context"
	"github.com/orbs-network/orbs-election-scheduler/config"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/metric"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections/testkit"
	"github.com/orbs-network/orbs-election-scheduler/services/hinting"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger/adapter/memory"
	"github.com/orbs-network/orbs-election-scheduler/test"
	"github.com/orbs-network/orbs-election-scheduler/test/builders"
	"github.com/orbs-network/orbs-election-scheduler/test/with"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type harness struct {
	t         testing.TB
	factory   *testkit.Factory
	elections *activeelections.Service
	store     *memory.Store
	hinting   *hinting.Service
}

func newHarness(ctx context.Context, parent *with.LoggingHarness, cfg config.NodeConfig) *harness {
	logger := parent.Logger
	h := &harness{t: parent.T, factory: testkit.NewFactory(), store: memory.NewStore()}
	h.elections = activeelections.NewService(ctx, cfg, h.factory, logger, metric.NewRegistry())
	h.hinting = hinting.NewService(ctx, cfg, h.elections, h.store, logger, metric.NewRegistry())
	return h
}

// withBlock stores an unconfirmed single block chain.
func (h *harness) withBlock() *primitives.Block {
	chain := builders.Chain().Build()
	require.NoError(h.t, builders.WriteChains(h.store, chain))
	return chain.Blocks[0]
}

// representatives stores count representatives with weight each.
func (h *harness) representatives(count int, weight uint64) []primitives.Account {
	reps := make([]primitives.Account, count)
	for i := range reps {
		reps[i] = builders.Representative(uint64(1000 + i))
		require.NoError(h.t, builders.WriteWeight(h.store, reps[i], primitives.NewAmount(weight)))
	}
	return reps
}

func (h *harness) vote(rep primitives.Account, hashes ...primitives.Hash) {
	h.hinting.Vote(builders.Vote().From(rep).At(uint64(time.Now().UnixNano())).For(hashes...).Build())
}

func (h *harness) electionStarted(block *primitives.Block) bool {
	_, found := h.factory.Find(block.Hash)
	return found
}

func TestHinting_PromotesExactlyAtVoterThreshold(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		h := newHarness(ctx, parent, config.ForTests())
		block := h.withBlock()
		reps := h.representatives(15, 100)

		for _, rep := range reps[:14] {
			h.vote(rep, block.Hash)
		}
		entry, found := h.hinting.Find(block.Hash)
		require.True(t, found)
		require.Len(t, entry.Voters, 14)
		require.Equal(t, "1400", entry.Tally.String(), "tally is reached before the voter count")
		require.True(t, test.Consistently(func() bool {
			return !h.electionStarted(block)
		}), "no election before the 15th voter")

		h.vote(reps[14], block.Hash)

		require.True(t, test.Eventually(func() bool {
			return h.elections.Active(block.Hash)
		}), "hinted election should start after the 15th voter")
		require.True(t, test.Eventually(func() bool {
			return h.hinting.Size() == 0
		}))

		election, _ := h.factory.Find(block.Hash)
		require.Equal(t, activeelections.BehaviorHinted, election.Behavior())
		require.Len(t, election.Votes(), 15, "cached votes seed the election")
	})
}

func TestHinting_WaitsForTallyThreshold(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		h := newHarness(ctx, parent, config.ForTests())
		block := h.withBlock()
		light := h.representatives(20, 10)

		for _, rep := range light {
			h.vote(rep, block.Hash)
		}

		require.True(t, test.Consistently(func() bool {
			return !h.electionStarted(block)
		}), "20 voters with a tally of 200 stay below 1000")
		entry, _ := h.hinting.Find(block.Hash)
		require.Equal(t, "200", entry.Tally.String())
	})
}

func TestHinting_IgnoresActiveAndRecentlyConfirmedBlocks(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		h := newHarness(ctx, parent, config.ForTests())
		active, confirmed := h.withBlock(), h.withBlock()
		h.elections.Insert(active, activeelections.BehaviorPriority, 0, 0, nil)
		h.elections.RecentlyConfirmed().Put(confirmed.QualifiedRoot(), confirmed.Hash)
		rep := h.representatives(1, 100)[0]

		h.vote(rep, active.Hash, confirmed.Hash)

		require.Zero(t, h.hinting.Size())
	})
}

func TestHinting_KeepsQualifiedVotesUntilBlockArrives(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		// no periodic sweep, only block arrival retries the entry
		cfg := config.ForTests().SetDuration(config.HINTING_CHECK_INTERVAL, time.Hour)
		h := newHarness(ctx, parent, cfg)
		chain := builders.Chain().Build()
		block := chain.Blocks[0]
		for _, rep := range h.representatives(15, 100) {
			h.vote(rep, block.Hash)
		}

		require.True(t, test.Consistently(func() bool {
			return h.hinting.Size() == 1 && !h.electionStarted(block)
		}), "votes stay cached while the block is missing")

		require.NoError(t, builders.WriteChains(h.store, chain))
		h.hinting.BlockArrived(block.Hash)

		require.True(t, test.Eventually(func() bool {
			return h.elections.Active(block.Hash)
		}), "hinted election should start once the block is stored")
		election, _ := h.factory.Find(block.Hash)
		require.Equal(t, activeelections.BehaviorHinted, election.Behavior())
		require.Len(t, election.Votes(), 15)
		require.True(t, test.Eventually(func() bool {
			return h.hinting.Size() == 0
		}))
	})
}

func TestHinting_RetriesWaitingEntriesOnSweep(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		h := newHarness(ctx, parent, config.ForTests())
		chain := builders.Chain().Build()
		block := chain.Blocks[0]
		for _, rep := range h.representatives(15, 100) {
			h.vote(rep, block.Hash)
		}
		require.True(t, test.Consistently(func() bool {
			return h.hinting.Size() == 1
		}))

		require.NoError(t, builders.WriteChains(h.store, chain))

		require.True(t, test.Eventually(func() bool {
			return h.elections.Active(block.Hash)
		}))
	})
}

func TestHinting_RespectsHintedBudget(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		cfg := config.ForTests().SetUint32(config.ACTIVE_ELECTIONS_HINTED_LIMIT_PERCENTAGE, 0)
		h := newHarness(ctx, parent, cfg)
		block := h.withBlock()
		for _, rep := range h.representatives(15, 100) {
			h.vote(rep, block.Hash)
		}

		require.True(t, test.Consistently(func() bool {
			return !h.electionStarted(block) && h.hinting.Size() == 1
		}), "qualified entry waits for hinted vacancy")
	})
}

func TestHinting_EvictsLowestTallyWhenFull(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		cfg := config.ForTests().SetUint32(config.HINTING_MAX_SIZE, 2)
		h := newHarness(ctx, parent, cfg)
		heavy := h.representatives(1, 500)[0]
		light := builders.Representative(1)
		require.NoError(t, builders.WriteWeight(h.store, light, primitives.NewAmount(1)))
		a, b, c := builders.OpenBlock(), builders.OpenBlock(), builders.OpenBlock()

		h.vote(heavy, a.Hash)
		h.vote(light, b.Hash)
		h.vote(heavy, c.Hash)

		require.Equal(t, 2, h.hinting.Size())
		_, found := h.hinting.Find(b.Hash)
		require.False(t, found, "lowest tally entry is evicted")
		_, found = h.hinting.Find(a.Hash)
		require.True(t, found)
	})
}

func TestHinting_DropsEntriesPastAgeCutoff(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		cfg := config.ForTests().SetDuration(config.HINTING_AGE_CUTOFF, 20*time.Millisecond)
		h := newHarness(ctx, parent, cfg)
		rep := h.representatives(1, 100)[0]
		h.vote(rep, builders.OpenBlock().Hash)
		require.Equal(t, 1, h.hinting.Size())

		require.True(t, test.Eventually(func() bool {
			h.hinting.Flush()
			return h.hinting.Size() == 0
		}))
	})
}

func TestHinting_EraseAndClear(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		h := newHarness(ctx, parent, config.ForTests())
		rep := h.representatives(1, 100)[0]
		first, second := builders.OpenBlock(), builders.OpenBlock()
		h.vote(rep, first.Hash, second.Hash)
		require.Equal(t, 2, h.hinting.Size())

		require.True(t, h.hinting.Erase(first.Hash))
		require.False(t, h.hinting.Erase(first.Hash))
		h.hinting.Clear()
		require.Zero(t, h.hinting.Size())
	})
}
