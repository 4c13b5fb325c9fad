// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package activeelections_test

import (
	"context"
	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/orbs-election-scheduler/config"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/metric"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections/testkit"
	"github.com/orbs-network/orbs-election-scheduler/test"
	"github.com/orbs-network/orbs-election-scheduler/test/builders"
	"github.com/orbs-network/orbs-election-scheduler/test/with"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func newService(ctx context.Context, parent *with.LoggingHarness, factory activeelections.ElectionFactory) *activeelections.Service {
	return activeelections.NewService(ctx, config.ForTests(), factory, parent.Logger, metric.NewRegistry())
}

func TestService_InsertCreatesOnceAndReportsExisting(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		factory := &testkit.MockElectionFactory{}
		factory.ExpectElections(1)
		s := newService(ctx, parent, factory)
		block := builders.OpenBlock()

		created := s.Insert(block, activeelections.BehaviorPriority, 0, 1, nil)
		require.Equal(t, activeelections.Created, created.Status)
		require.True(t, created.Inserted())

		again := s.Insert(builders.Fork(block, 1), activeelections.BehaviorPriority, 0, 1, nil)
		require.Equal(t, activeelections.Existed, again.Status)
		require.Equal(t, created.Election, again.Election)

		require.True(t, s.Active(block.Hash))
		require.True(t, s.ActiveRoot(block.QualifiedRoot()))

		ok, err := factory.Verify()
		require.True(t, ok, "election factory called once: %v", err)
	})
}

func TestService_RejectsRecentlyConfirmedRoot(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		factory := &testkit.MockElectionFactory{}
		factory.Never("NewElection", mock.Any, mock.Any)
		s := newService(ctx, parent, factory)
		block := builders.OpenBlock()
		s.RecentlyConfirmed().Put(block.QualifiedRoot(), block.Hash)

		result := s.Insert(block, activeelections.BehaviorPriority, 0, 1, nil)

		require.Equal(t, activeelections.Rejected, result.Status)
		require.Nil(t, result.Election)
		ok, err := factory.Verify()
		require.True(t, ok, "no election created: %v", err)
	})
}

func TestService_HintedAndOptimisticRespectTheirBudgets(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		s := newService(ctx, parent, testkit.NewFactory())

		// 100 elections, 20% hinted, 10% optimistic
		require.EqualValues(t, 20, s.Limit(activeelections.BehaviorHinted))
		require.EqualValues(t, 10, s.Limit(activeelections.BehaviorOptimistic))

		for i := 0; i < 10; i++ {
			require.True(t, s.Insert(builders.OpenBlock(), activeelections.BehaviorOptimistic, 0, 0, nil).Inserted())
		}
		require.Zero(t, s.Vacancy(activeelections.BehaviorOptimistic))
		require.Equal(t, activeelections.Rejected, s.Insert(builders.OpenBlock(), activeelections.BehaviorOptimistic, 0, 0, nil).Status)

		require.EqualValues(t, 20, s.Vacancy(activeelections.BehaviorHinted), "budgets are separate")
		require.True(t, s.Insert(builders.OpenBlock(), activeelections.BehaviorManual, 0, 0, nil).Inserted())
	})
}

func TestService_EraseCallbackAndVacancyObserversFire(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		s := newService(ctx, parent, testkit.NewFactory())
		observed := 0
		s.OnVacancyUpdate(func() { observed++ })

		block := builders.OpenBlock()
		var erased activeelections.Election
		result := s.Insert(block, activeelections.BehaviorPriority, 2, 7, func(e activeelections.Election) { erased = e })
		require.EqualValues(t, 99, s.Vacancy(activeelections.BehaviorPriority))

		require.True(t, s.Cancel(result.Election))
		require.False(t, s.Cancel(result.Election))

		require.Equal(t, result.Election, erased)
		require.Equal(t, 1, observed)
		require.Equal(t, activeelections.StatusCancelled, result.Election.Status())
		require.False(t, s.Active(block.Hash))
		require.EqualValues(t, 100, s.Vacancy(activeelections.BehaviorPriority))
	})
}

func TestService_ConfirmedRecordsWinner(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		s := newService(ctx, parent, testkit.NewFactory())
		block := builders.OpenBlock()
		result := s.Insert(block, activeelections.BehaviorPriority, 0, 0, nil)

		require.True(t, s.Confirmed(result.Election))

		require.False(t, s.ActiveRoot(block.QualifiedRoot()))
		require.True(t, s.RecentlyConfirmed().ExistsHash(block.Hash))
		require.Equal(t, activeelections.Rejected, s.Insert(block, activeelections.BehaviorPriority, 0, 0, nil).Status)
	})
}

func TestService_ConfirmedAfterCancelDoesNotSuppressRoot(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		s := newService(ctx, parent, testkit.NewFactory())
		block := builders.OpenBlock()
		result := s.Insert(block, activeelections.BehaviorPriority, 0, 0, nil)
		require.True(t, s.Cancel(result.Election))

		require.False(t, s.Confirmed(result.Election))

		require.False(t, s.RecentlyConfirmed().ExistsRoot(block.QualifiedRoot()))
		require.False(t, s.RecentlyConfirmed().ExistsHash(block.Hash))
		require.Equal(t, activeelections.Created, s.Insert(block, activeelections.BehaviorPriority, 0, 0, nil).Status)
	})
}

func TestService_VoteRoutesToActiveElections(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		factory := testkit.NewFactory()
		s := newService(ctx, parent, factory)
		active, inactive := builders.OpenBlock(), builders.OpenBlock()
		s.Insert(active, activeelections.BehaviorPriority, 0, 0, nil)
		rep := builders.Representative(1)

		remaining := s.Vote(builders.Vote().From(rep).At(9).For(active.Hash, inactive.Hash).Build())

		require.Equal(t, []primitives.Hash{inactive.Hash}, remaining)
		election, _ := factory.Find(active.Hash)
		require.Equal(t, []testkit.RecordedVote{{Representative: rep, Timestamp: 9, Hash: active.Hash}}, election.Votes())
	})
}

func TestService_CleanupRemovesFinishedElections(t *testing.T) {
	with.LoggingContext(t, func(ctx context.Context, parent *with.LoggingHarness) {
		factory := testkit.NewFactory()
		s := newService(ctx, parent, factory)
		confirmed, expired, running := builders.OpenBlock(), builders.OpenBlock(), builders.OpenBlock()
		for _, b := range []*primitives.Block{confirmed, expired, running} {
			s.Insert(b, activeelections.BehaviorPriority, 0, 0, nil)
		}

		e, _ := factory.Find(confirmed.Hash)
		e.Confirm()
		e, _ = factory.Find(expired.Hash)
		e.Expire()

		require.True(t, test.Eventually(func() bool {
			return s.Size() == 1
		}), "finished elections should be swept")
		require.True(t, s.ActiveRoot(running.QualifiedRoot()))
		require.True(t, s.RecentlyConfirmed().ExistsRoot(confirmed.QualifiedRoot()))
		require.False(t, s.RecentlyConfirmed().ExistsRoot(expired.QualifiedRoot()))
	})
}

func TestService_CleanupStopsOnShutdown(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		ctx, cancel := context.WithCancel(context.Background())
		s := newService(ctx, parent, testkit.NewFactory())
		cancel()

		shutdownCtx, release := context.WithTimeout(context.Background(), time.Second)
		defer release()
		s.WaitUntilShutdown(shutdownCtx)
		require.NoError(t, shutdownCtx.Err(), "cleanup loop should exit promptly")
	})
}
