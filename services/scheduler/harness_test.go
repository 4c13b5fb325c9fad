// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package scheduler_test

import (
	"context"
	"github.com/orbs-network/orbs-election-scheduler/config"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/metric"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections/testkit"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger/adapter/memory"
	"github.com/orbs-network/orbs-election-scheduler/test/builders"
	"github.com/orbs-network/orbs-election-scheduler/test/with"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"testing"
)

// staticConfig has no background cleanup so tests may modify it while services run.
func staticConfig() config.NodeConfig {
	return config.ForTests().SetDuration(config.ACTIVE_ELECTIONS_CLEANUP_INTERVAL, 0)
}

func electionBudget(size uint32) config.NodeConfigKeyValue {
	return config.NodeConfigKeyValue{Key: config.ACTIVE_ELECTIONS_SIZE, Value: config.NodeConfigValue{Uint32Value: size}}
}

func withConfig(kv ...config.NodeConfigKeyValue) config.NodeConfig {
	cfg := config.ForTests().SetDuration(config.ACTIVE_ELECTIONS_CLEANUP_INTERVAL, 0)
	cfg.Modify(kv...)
	return cfg
}

type harness struct {
	t         testing.TB
	logger    log.Logger
	factory   *testkit.Factory
	elections *activeelections.Service
	store     *memory.Store
}

func newHarness(ctx context.Context, parent *with.LoggingHarness, cfg activeelections.Config) *harness {
	h := &harness{
		t:       parent.T,
		logger:  parent.Logger,
		factory: testkit.NewFactory(),
		store:   memory.NewStore(),
	}
	h.elections = activeelections.NewService(ctx, cfg, h.factory, h.logger, metric.NewRegistry())
	return h
}

func (h *harness) write(chains ...*builders.LedgerChain) {
	require.NoError(h.t, builders.WriteChains(h.store, chains...))
}

func (h *harness) read(f func(txn ledger.ReadTransaction)) {
	txn, err := h.store.BeginRead()
	require.NoError(h.t, err)
	defer txn.Release()
	f(txn)
}

func (h *harness) electionExists(chain *builders.LedgerChain) bool {
	return h.elections.ActiveRoot(chain.FirstUnconfirmed().QualifiedRoot())
}
