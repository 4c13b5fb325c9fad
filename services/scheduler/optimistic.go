// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package scheduler

import (
	"context"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gammazero/deque"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/logfields"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/metric"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/orbs-network/orbs-election-scheduler/synchronization"
	"github.com/orbs-network/scribe/log"
	"sync"
)

var OptimisticLogTag = log.Service("optimistic-scheduler")

type OptimisticConfig interface {
	OptimisticSchedulerEnabled() bool
	OptimisticSchedulerGapThreshold() uint32
	OptimisticSchedulerMaxSize() uint32
}

// Optimistic starts elections for chain heads of accounts whose confirmation lags far behind, so a
// long unconfirmed chain can be cemented in one go instead of block by block.
type Optimistic struct {
	govnr.TreeSupervisor

	logger    log.Logger
	config    OptimisticConfig
	elections Elections
	store     ledger.Store
	wakeup    *synchronization.Signal

	candidates *metric.Gauge
	activated  *metric.Rate

	mu struct {
		sync.Mutex
		queue  deque.Deque[primitives.Account]
		queued mapset.Set[primitives.Account]
	}
}

func NewOptimistic(ctx context.Context, config OptimisticConfig, elections Elections, store ledger.Store, parentLogger log.Logger, metricFactory metric.Factory) *Optimistic {
	o := &Optimistic{
		logger:     parentLogger.WithTags(OptimisticLogTag),
		config:     config,
		elections:  elections,
		store:      store,
		wakeup:     synchronization.NewSignal(),
		candidates: metricFactory.NewGauge("Scheduler.Optimistic.Candidates"),
		activated:  metricFactory.NewRate("Scheduler.Optimistic.Activated.Rate"),
	}
	o.mu.queued = mapset.NewThreadUnsafeSet[primitives.Account]()

	o.Supervise(o.run(ctx))
	return o
}

// Activate queues account when its unconfirmed gap reaches the threshold or nothing of it is confirmed.
func (o *Optimistic) Activate(account primitives.Account, info primitives.AccountInfo, conf primitives.ConfirmationHeightInfo) bool {
	if !o.config.OptimisticSchedulerEnabled() {
		return false
	}
	if conf.Height >= info.BlockCount {
		return false
	}
	if info.BlockCount-conf.Height < uint64(o.config.OptimisticSchedulerGapThreshold()) && conf.Height != 0 {
		return false
	}

	o.mu.Lock()
	if o.mu.queue.Len() >= int(o.config.OptimisticSchedulerMaxSize()) || !o.mu.queued.Add(account) {
		o.mu.Unlock()
		return false
	}
	o.mu.queue.PushBack(account)
	o.candidates.Update(int64(o.mu.queue.Len()))
	o.mu.Unlock()

	o.wakeup.Notify()
	return true
}

// ActivateFrom adapts Activate to the backlog scan callback.
func (o *Optimistic) ActivateFrom(_ ledger.ReadTransaction, account primitives.Account, info primitives.AccountInfo, conf primitives.ConfirmationHeightInfo) bool {
	return o.Activate(account, info, conf)
}

func (o *Optimistic) Notify() {
	o.wakeup.Notify()
}

func (o *Optimistic) Size() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mu.queue.Len()
}

func (o *Optimistic) Contains(account primitives.Account) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mu.queued.Contains(account)
}

func (o *Optimistic) run(ctx context.Context) govnr.ShutdownWaiter {
	return govnr.Forever(ctx, "optimistic-scheduler", logfields.GovnrErrorer(o.logger), func() {
		for {
			for ctx.Err() == nil && o.activateNext() {
			}

			select {
			case <-ctx.Done():
				return
			case <-o.wakeup.C():
			}
		}
	})
}

func (o *Optimistic) pop() (primitives.Account, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mu.queue.Len() == 0 {
		return primitives.Account{}, false
	}
	account := o.mu.queue.PopFront()
	o.mu.queued.Remove(account)
	o.candidates.Update(int64(o.mu.queue.Len()))
	return account, true
}

// activateNext returns false when there is no candidate or no optimistic vacancy.
func (o *Optimistic) activateNext() bool {
	if o.elections.Vacancy(activeelections.BehaviorOptimistic) <= 0 {
		return false
	}
	account, found := o.pop()
	if !found {
		return false
	}

	head, err := o.headBlock(account)
	if err != nil {
		o.logger.Error("failed reading chain head", log.Error(err), logfields.Account(account))
		return true
	}
	if head == nil {
		return true
	}

	root := head.QualifiedRoot()
	if o.elections.ActiveRoot(root) || o.elections.RecentlyConfirmed().ExistsRoot(root) {
		return true
	}

	if o.elections.Insert(head, activeelections.BehaviorOptimistic, 0, 0, nil).Inserted() {
		o.activated.Measure(1)
	}
	return true
}

func (o *Optimistic) headBlock(account primitives.Account) (*primitives.Block, error) {
	txn, err := o.store.BeginRead()
	if err != nil {
		return nil, err
	}
	defer txn.Release()

	head, found, err := ledger.HeadBlock(txn, account)
	if err != nil || !found {
		return nil, err
	}
	return head, nil
}
