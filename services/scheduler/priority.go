// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package scheduler

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/logfields"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/metric"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/orbs-network/orbs-election-scheduler/synchronization"
	"github.com/orbs-network/scribe/log"
	"time"
)

var LogTag = log.Service("priority-scheduler")

type PriorityConfig interface {
	PrioritySchedulerBucketMaxBlocks() uint32
	PrioritySchedulerBucketReservedElections() uint32
	PrioritySchedulerUpdateInterval() time.Duration
}

// Clock stamps queued candidates. Earlier stamps are more urgent.
type Clock func() uint64

func WallClock() uint64 {
	return uint64(time.Now().UnixNano())
}

type priorityMetrics struct {
	activated *metric.Rate
	dropped   *metric.Rate
	evicted   *metric.Rate
	queued    *metric.Gauge
}

// Priority schedules elections for the first unconfirmed block of accounts, one bucket per balance tier.
type Priority struct {
	govnr.TreeSupervisor

	logger    log.Logger
	config    PriorityConfig
	elections Elections
	minimums  []primitives.Amount
	buckets   []*Bucket
	clock     Clock
	wakeup    *synchronization.Signal
	metrics   *priorityMetrics
}

func NewPriority(ctx context.Context, config PriorityConfig, elections Elections, parentLogger log.Logger, metricFactory metric.Factory) *Priority {
	return NewPriorityWithClock(ctx, config, elections, WallClock, parentLogger, metricFactory)
}

func NewPriorityWithClock(ctx context.Context, config PriorityConfig, elections Elections, clock Clock, parentLogger log.Logger, metricFactory metric.Factory) *Priority {
	p := &Priority{
		logger:    parentLogger.WithTags(LogTag),
		config:    config,
		elections: elections,
		minimums:  DefaultTierMinimums(),
		clock:     clock,
		wakeup:    synchronization.NewSignal(),
		metrics: &priorityMetrics{
			activated: metricFactory.NewRate("Scheduler.Priority.Activated.Rate"),
			dropped:   metricFactory.NewRate("Scheduler.Priority.Dropped.Rate"),
			evicted:   metricFactory.NewRate("Scheduler.Priority.Evicted.Rate"),
			queued:    metricFactory.NewGauge("Scheduler.Priority.Queued"),
		},
	}

	for i := range p.minimums {
		tier := activeelections.Tier(i)
		set := NewElectionSet(elections, activeelections.BehaviorPriority, tier, int(config.PrioritySchedulerBucketReservedElections()))
		p.buckets = append(p.buckets, NewBucket(tier, int(config.PrioritySchedulerBucketMaxBlocks()), set))
	}

	p.Supervise(p.run(ctx))
	return p
}

// Activate queues the first unconfirmed block of account. Returns false when there is nothing to
// schedule or the block is already active or recently confirmed.
func (p *Priority) Activate(txn ledger.ReadTransaction, account primitives.Account) bool {
	block, balance, found, err := ledger.FirstUnconfirmed(txn, account)
	if err != nil {
		p.logger.Error("failed looking up first unconfirmed block", log.Error(err), logfields.Account(account))
		return false
	}
	if !found {
		return false
	}
	return p.activate(block, balance)
}

// ActivateFrom is Activate for callers already holding the account records, such as the backlog scan.
func (p *Priority) ActivateFrom(txn ledger.ReadTransaction, account primitives.Account, info primitives.AccountInfo, conf primitives.ConfirmationHeightInfo) bool {
	block, balance, found, err := ledger.FirstUnconfirmedFrom(txn, info, conf)
	if err != nil {
		p.logger.Error("failed looking up first unconfirmed block", log.Error(err), logfields.Account(account))
		return false
	}
	if !found {
		return false
	}
	return p.activate(block, balance)
}

func (p *Priority) activate(block *primitives.Block, balance primitives.Amount) bool {
	root := block.QualifiedRoot()
	if p.elections.ActiveRoot(root) || p.elections.RecentlyConfirmed().ExistsRoot(root) {
		return false
	}
	return p.Push(p.clock(), block, balance)
}

// Push queues block in the bucket of balance.
func (p *Priority) Push(arrival uint64, block *primitives.Block, balance primitives.Amount) bool {
	bucket := p.buckets[tierOf(p.minimums, balance)]
	if !bucket.Push(arrival, block) {
		return false
	}
	p.metrics.queued.Update(int64(p.Size()))
	p.wakeup.Notify()
	return true
}

func (p *Priority) Notify() {
	p.wakeup.Notify()
}

func (p *Priority) Size() int {
	size := 0
	for _, b := range p.buckets {
		size += b.Size()
	}
	return size
}

func (p *Priority) Empty() bool {
	return p.Size() == 0
}

func (p *Priority) Buckets() []*Bucket {
	return p.buckets
}

func (p *Priority) TierOf(balance primitives.Amount) activeelections.Tier {
	return activeelections.Tier(tierOf(p.minimums, balance))
}

func (p *Priority) run(ctx context.Context) govnr.ShutdownWaiter {
	return govnr.Forever(ctx, "priority-scheduler", logfields.GovnrErrorer(p.logger), func() {
		update := time.NewTicker(p.config.PrioritySchedulerUpdateInterval())
		defer update.Stop()

		for {
			for ctx.Err() == nil && p.activateNext() {
			}

			select {
			case <-ctx.Done():
				return
			case <-p.wakeup.C():
			case <-update.C:
				p.update()
			}
		}
	})
}

// activateNext activates the head of the lowest available tier.
func (p *Priority) activateNext() bool {
	for _, b := range p.buckets {
		if b.Available() {
			if b.Activate() {
				p.metrics.activated.Measure(1)
			} else {
				p.metrics.dropped.Measure(1)
			}
			p.metrics.queued.Update(int64(p.Size()))
			return true
		}
	}
	return false
}

func (p *Priority) update() {
	evicted := 0
	for _, b := range p.buckets {
		evicted += b.Update()
	}
	if evicted > 0 {
		p.metrics.evicted.Measure(int64(evicted))
		p.logger.Info("cancelled elections over budget", log.Int("count", evicted))
	}
	p.metrics.queued.Update(int64(p.Size()))
}
