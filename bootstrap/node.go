// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-election-scheduler/config"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/logfields"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/metric"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"github.com/orbs-network/orbs-election-scheduler/services/backlog"
	"github.com/orbs-network/orbs-election-scheduler/services/hinting"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/orbs-network/orbs-election-scheduler/services/scheduler"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

var LogTag = log.Service("node")

// Node owns every scheduling service of one process and the wiring between them.
type Node struct {
	govnr.TreeSupervisor

	logger  log.Logger
	cancel  context.CancelFunc
	stopped <-chan struct{}
	store   ledger.Store

	Elections  *activeelections.Service
	Priority   *scheduler.Priority
	Optimistic *scheduler.Optimistic
	Hinting    *hinting.Service
	Backlog    *backlog.Population
}

func NewNode(parentCtx context.Context, nodeConfig config.NodeConfig, store ledger.Store, factory activeelections.ElectionFactory, parentLogger log.Logger, metricRegistry metric.Registry) *Node {
	ctx, cancel := context.WithCancel(parentCtx)
	logger := parentLogger.WithTags(LogTag)

	n := &Node{
		logger:  logger,
		cancel:  cancel,
		stopped: ctx.Done(),
		store:   store,
	}

	n.Elections = activeelections.NewService(ctx, nodeConfig, factory, logger, metricRegistry)
	n.Priority = scheduler.NewPriority(ctx, nodeConfig, n.Elections, logger, metricRegistry)
	n.Optimistic = scheduler.NewOptimistic(ctx, nodeConfig, n.Elections, store, logger, metricRegistry)
	n.Hinting = hinting.NewService(ctx, nodeConfig, n.Elections, store, logger, metricRegistry)
	n.Backlog = backlog.NewPopulation(ctx, nodeConfig, store, logger, metricRegistry, n.activatePriority, n.activateOptimistic)

	n.Elections.OnVacancyUpdate(n.Priority.Notify)
	n.Elections.OnVacancyUpdate(n.Optimistic.Notify)
	n.Elections.OnVacancyUpdate(n.Hinting.Notify)

	n.Supervise(n.Elections)
	n.Supervise(n.Priority)
	n.Supervise(n.Optimistic)
	n.Supervise(n.Hinting)
	n.Supervise(n.Backlog)
	n.Supervise(metric.NewRuntimeReporter(ctx, metricRegistry, logger))
	n.Supervise(metricRegistry.ReportEvery(ctx, nodeConfig.MetricsReportInterval(), logger))

	logger.Info("node started", log.Uint32("active-elections-size", nodeConfig.ActiveElectionsSize()))
	return n
}

func (n *Node) activatePriority(txn ledger.ReadTransaction, account primitives.Account, info primitives.AccountInfo, conf primitives.ConfirmationHeightInfo) {
	n.Priority.ActivateFrom(txn, account, info, conf)
}

func (n *Node) activateOptimistic(txn ledger.ReadTransaction, account primitives.Account, info primitives.AccountInfo, conf primitives.ConfirmationHeightInfo) {
	n.Optimistic.ActivateFrom(txn, account, info, conf)
}

// Vote delivers a vote to the elections it names; hashes without an election feed the hinting cache.
func (n *Node) Vote(vote *primitives.Vote) {
	remaining := n.Elections.Vote(vote)
	if len(remaining) == 0 {
		return
	}
	n.Hinting.Vote(&primitives.Vote{
		Representative: vote.Representative,
		Timestamp:      vote.Timestamp,
		Hashes:         remaining,
	})
}

// BlockArrived is called once block was stored in the ledger.
func (n *Node) BlockArrived(block *primitives.Block) error {
	n.Hinting.BlockArrived(block.Hash)
	return n.ActivateAccount(block.Account)
}

// ActivateAccount offers the account to both schedulers, as a backlog pass would.
func (n *Node) ActivateAccount(account primitives.Account) error {
	txn, err := n.store.BeginRead()
	if err != nil {
		return errors.Wrap(err, "failed opening read transaction")
	}
	defer txn.Release()

	info, found, err := txn.Account(account)
	if err != nil {
		return errors.Wrapf(err, "failed reading account %s", account)
	}
	if !found {
		return nil
	}
	conf, err := txn.ConfirmationHeight(account)
	if err != nil {
		return errors.Wrapf(err, "failed reading confirmation height of %s", account)
	}

	if conf.Height < info.BlockCount {
		n.logger.Info("activating account", logfields.Account(account), logfields.SchedulingFlow)
		n.activatePriority(txn, account, info, conf)
		n.activateOptimistic(txn, account, info, conf)
	}
	return nil
}

func (n *Node) ListElections() []activeelections.Entry {
	return n.Elections.List()
}

// Stopped is closed once shutdown was requested, by the parent context or GracefulShutdown.
func (n *Node) Stopped() <-chan struct{} {
	return n.stopped
}

func (n *Node) GracefulShutdown(shutdownContext context.Context) {
	n.logger.Info("shutting down")
	n.cancel()
	n.WaitUntilShutdown(shutdownContext)
}
