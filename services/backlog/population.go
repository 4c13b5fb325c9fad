// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package backlog

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/logfields"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/metric"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/orbs-network/orbs-election-scheduler/synchronization"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"sync"
	"sync/atomic"
	"time"
)

var LogTag = log.Service("backlog-population")

type Config interface {
	BacklogPopulationEnabled() bool
	BacklogPopulationChunkSize() uint32
	BacklogPopulationDutyCycle() uint32
}

// ActivateCallback receives every account with unconfirmed blocks, inside the read transaction of
// the chunk that visited it.
type ActivateCallback func(txn ledger.ReadTransaction, account primitives.Account, info primitives.AccountInfo, conf primitives.ConfirmationHeightInfo)

// Population rescans the whole account table so candidates dropped anywhere in the pipeline are
// eventually scheduled again.
type Population struct {
	govnr.TreeSupervisor

	logger  log.Logger
	config  Config
	store   ledger.Store
	wakeup  *synchronization.Signal
	passes  uint64
	scanned *metric.Rate
	chunks  *metric.Histogram

	mu struct {
		sync.Mutex
		triggered bool
		callbacks []ActivateCallback
	}
}

func NewPopulation(ctx context.Context, config Config, store ledger.Store, parentLogger log.Logger, metricFactory metric.Factory, callbacks ...ActivateCallback) *Population {
	p := &Population{
		logger:  parentLogger.WithTags(LogTag),
		config:  config,
		store:   store,
		wakeup:  synchronization.NewSignal(),
		scanned: metricFactory.NewRate("Backlog.Scanned.Rate"),
		chunks:  metricFactory.NewLatency("Backlog.ChunkDuration.Millis", 10*time.Second),
	}
	p.mu.callbacks = callbacks

	p.Supervise(p.run(ctx))
	return p
}

// OnActivate adds a callback; it takes part from the next visited account on.
func (p *Population) OnActivate(callback ActivateCallback) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mu.callbacks = append(p.mu.callbacks, callback)
}

// Trigger requests one full pass, even when continuous scanning is disabled.
func (p *Population) Trigger() {
	p.mu.Lock()
	p.mu.triggered = true
	p.mu.Unlock()
	p.wakeup.Notify()
}

func (p *Population) Notify() {
	p.wakeup.Notify()
}

// Passes counts completed full scans.
func (p *Population) Passes() uint64 {
	return atomic.LoadUint64(&p.passes)
}

func (p *Population) predicate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mu.triggered || p.config.BacklogPopulationEnabled()
}

func (p *Population) run(ctx context.Context) govnr.ShutdownWaiter {
	return govnr.Forever(ctx, "backlog-population", logfields.GovnrErrorer(p.logger), func() {
		for {
			if !p.predicate() {
				select {
				case <-ctx.Done():
					return
				case <-p.wakeup.C():
					continue
				}
			}

			p.mu.Lock()
			p.mu.triggered = false
			p.mu.Unlock()

			if err := p.populate(ctx); err != nil {
				p.logger.Error("backlog scan failed", log.Error(err))
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(p.pause()):
			}
		}
	})
}

func (p *Population) pause() time.Duration {
	duty := p.config.BacklogPopulationDutyCycle()
	if duty >= 100 {
		return 0
	}
	return time.Duration(100-duty) * time.Second / 100
}

// populate runs one full pass, pausing between chunks so no read transaction is held for long.
func (p *Population) populate(ctx context.Context) error {
	next := primitives.Account{}
	for {
		var more bool
		var err error
		if next, more, err = p.scanChunk(next); err != nil {
			return err
		}
		if !more {
			break
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(p.pause()):
		}
	}

	passes := atomic.AddUint64(&p.passes, 1)
	p.logger.Info("backlog pass complete", log.Uint64("passes", passes))
	return nil
}

func (p *Population) scanChunk(from primitives.Account) (primitives.Account, bool, error) {
	start := time.Now()
	defer p.chunks.RecordSince(start)

	p.mu.Lock()
	callbacks := p.mu.callbacks
	p.mu.Unlock()

	txn, err := p.store.BeginRead()
	if err != nil {
		return from, false, errors.Wrap(err, "failed opening read transaction")
	}
	defer txn.Release()

	visited := 0
	next, more, err := txn.ForEachAccount(from, int(p.config.BacklogPopulationChunkSize()), func(account primitives.Account, info primitives.AccountInfo) error {
		visited++
		conf, err := txn.ConfirmationHeight(account)
		if err != nil {
			return err
		}
		if conf.Height < info.BlockCount {
			for _, callback := range callbacks {
				callback(txn, account, info, conf)
			}
		}
		return nil
	})
	p.scanned.Measure(int64(visited))
	if err != nil {
		return from, false, errors.Wrapf(err, "failed scanning accounts from %s", from)
	}
	return next, more, nil
}
