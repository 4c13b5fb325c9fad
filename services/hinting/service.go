// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package hinting

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
	"sync"
	"time"
)

var LogTag = log.Service("hinting")

type Config interface {
	HintingMaxSize() uint32
	HintingMaxVoters() uint32
	HintingElectionStartVotersMin() uint32
	HintingElectionStartTallyMin() primitives.Amount
	HintingAgeCutoff() time.Duration
	HintingCheckInterval() time.Duration
}

type Elections interface {
	Insert(block *primitives.Block, behavior activeelections.Behavior, tier activeelections.Tier, priority activeelections.Priority, onErase activeelections.EraseCallback) activeelections.InsertResult
	Vacancy(behavior activeelections.Behavior) int64
	Active(hash primitives.Hash) bool
	ActiveRoot(root primitives.QualifiedRoot) bool
	RecentlyConfirmed() *activeelections.RecentlyConfirmed
}

type metrics struct {
	size     *metric.Gauge
	promoted *metric.Rate
	evicted  *metric.Rate
	dropped  *metric.Rate
}

// Service starts elections for blocks that collected enough vote weight from representatives while
// no scheduler picked them up.
type Service struct {
	govnr.TreeSupervisor

	logger    log.Logger
	config    Config
	elections Elections
	store     ledger.Store
	wakeup    *synchronization.Signal
	metrics   *metrics

	mu struct {
		sync.Mutex
		cache *cache
		ready []primitives.Hash
	}
}

func NewService(ctx context.Context, config Config, elections Elections, store ledger.Store, parentLogger log.Logger, metricFactory metric.Factory) *Service {
	s := &Service{
		logger:    parentLogger.WithTags(LogTag),
		config:    config,
		elections: elections,
		store:     store,
		wakeup:    synchronization.NewSignal(),
		metrics: &metrics{
			size:     metricFactory.NewGauge("Hinting.Size"),
			promoted: metricFactory.NewRate("Hinting.Promoted.Rate"),
			evicted:  metricFactory.NewRate("Hinting.Evicted.Rate"),
			dropped:  metricFactory.NewRate("Hinting.Dropped.Rate"),
		},
	}
	s.mu.cache = newCache()

	s.Supervise(s.run(ctx))
	return s
}

// Vote records vote for every covered block that has no election and was not just confirmed.
func (s *Service) Vote(vote *primitives.Vote) {
	var hashes []primitives.Hash
	for _, hash := range vote.Hashes {
		if !s.elections.Active(hash) && !s.elections.RecentlyConfirmed().ExistsHash(hash) {
			hashes = append(hashes, hash)
		}
	}
	if len(hashes) == 0 {
		return
	}

	weight, err := s.weight(vote.Representative)
	if err != nil {
		s.logger.Error("failed reading representative weight", log.Error(err), logfields.Account(vote.Representative))
		return
	}

	now := time.Now()
	maxSize, maxVoters := int(s.config.HintingMaxSize()), int(s.config.HintingMaxVoters())
	ready, evicted := false, 0

	s.mu.Lock()
	for _, hash := range hashes {
		e, dropped := s.mu.cache.getOrCreate(hash, now, maxSize)
		if dropped != nil {
			evicted++
		}
		s.mu.cache.update(e, func() bool {
			return e.vote(vote.Representative, vote.Timestamp, weight, maxVoters)
		})
		if !e.ready && !e.waiting && s.qualifies(e) {
			e.ready = true
			s.mu.ready = append(s.mu.ready, hash)
			ready = true
		}
	}
	size := s.mu.cache.len()
	s.mu.Unlock()

	s.metrics.size.Update(int64(size))
	if evicted > 0 {
		s.metrics.evicted.Measure(int64(evicted))
	}
	if ready {
		s.wakeup.Notify()
	}
}

func (s *Service) qualifies(e *Entry) bool {
	return len(e.Voters) >= int(s.config.HintingElectionStartVotersMin()) &&
		!e.Tally.Less(s.config.HintingElectionStartTallyMin())
}

func (s *Service) weight(representative primitives.Account) (primitives.Amount, error) {
	txn, err := s.store.BeginRead()
	if err != nil {
		return primitives.Amount{}, err
	}
	defer txn.Release()
	return txn.Weight(representative)
}

func (s *Service) Notify() {
	s.wakeup.Notify()
}

// BlockArrived retries a qualified entry that was waiting for hash to reach the ledger.
func (s *Service) BlockArrived(hash primitives.Hash) {
	s.mu.Lock()
	e, found := s.mu.cache.get(hash)
	retry := found && e.waiting
	if retry {
		e.waiting = false
		if !e.ready {
			e.ready = true
			s.mu.ready = append(s.mu.ready, hash)
		}
	}
	s.mu.Unlock()

	if retry {
		s.wakeup.Notify()
	}
}

// Flush sweeps the cache right away and wakes the worker.
func (s *Service) Flush() {
	s.sweep()
	s.wakeup.Notify()
}

func (s *Service) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.cache.len()
}

func (s *Service) Find(hash primitives.Hash) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, found := s.mu.cache.get(hash); found {
		return e.clone(), true
	}
	return Entry{}, false
}

func (s *Service) Erase(hash primitives.Hash) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	erased := s.mu.cache.erase(hash)
	s.metrics.size.Update(int64(s.mu.cache.len()))
	return erased
}

func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mu.cache.clear()
	s.mu.ready = nil
	s.metrics.size.Update(0)
}

func (s *Service) run(ctx context.Context) govnr.ShutdownWaiter {
	return govnr.Forever(ctx, "hinting", logfields.GovnrErrorer(s.logger), func() {
		check := time.NewTicker(s.config.HintingCheckInterval())
		defer check.Stop()

		for {
			s.promoteReady(ctx)

			select {
			case <-ctx.Done():
				return
			case <-s.wakeup.C():
			case <-check.C:
				s.sweep()
			}
		}
	})
}

// sweep drops entries past the age cutoff and queues entries that reached the thresholds,
// including ones still waiting for their block.
func (s *Service) sweep() {
	cutoff := time.Now().Add(-s.config.HintingAgeCutoff())
	var expired []primitives.Hash

	s.mu.Lock()
	s.mu.cache.each(func(e *Entry) {
		if e.Arrival.Before(cutoff) {
			expired = append(expired, e.Hash)
		} else if !e.ready && s.qualifies(e) {
			e.waiting = false
			e.ready = true
			s.mu.ready = append(s.mu.ready, e.Hash)
		}
	})
	for _, hash := range expired {
		s.mu.cache.erase(hash)
	}
	size := s.mu.cache.len()
	s.mu.Unlock()

	s.metrics.size.Update(int64(size))
	if len(expired) > 0 {
		s.metrics.dropped.Measure(int64(len(expired)))
	}
}

func (s *Service) nextReady() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.mu.ready) > 0 {
		hash := s.mu.ready[0]
		s.mu.ready = s.mu.ready[1:]
		if e, found := s.mu.cache.get(hash); found && e.ready {
			e.ready = false
			return e.clone(), true
		}
	}
	return Entry{}, false
}

func (s *Service) requeue(hash primitives.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, found := s.mu.cache.get(hash); found && !e.ready {
		e.ready = true
		s.mu.ready = append(s.mu.ready, hash)
	}
}

// await parks a qualified entry until its block is stored or the age cutoff removes it.
func (s *Service) await(hash primitives.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, found := s.mu.cache.get(hash); found && !e.ready {
		e.waiting = true
	}
}

func (s *Service) promoteReady(ctx context.Context) {
	for ctx.Err() == nil && s.elections.Vacancy(activeelections.BehaviorHinted) > 0 {
		entry, found := s.nextReady()
		if !found {
			return
		}
		if !s.promote(entry) {
			return
		}
	}
}

// promote returns false when the entry was requeued and the worker should wait for the next wake-up.
func (s *Service) promote(entry Entry) bool {
	block, confirmed, err := s.lookup(entry.Hash)
	if err != nil {
		s.logger.Error("failed looking up hinted block", log.Error(err), logfields.BlockHash(entry.Hash))
		s.requeue(entry.Hash)
		return false
	}
	if block == nil {
		s.await(entry.Hash)
		return true
	}
	if confirmed || s.elections.ActiveRoot(block.QualifiedRoot()) {
		s.Erase(entry.Hash)
		s.metrics.dropped.Measure(1)
		return true
	}

	result := s.elections.Insert(block, activeelections.BehaviorHinted, 0, 0, nil)
	switch result.Status {
	case activeelections.Created, activeelections.Existed:
		for _, v := range entry.Voters {
			result.Election.Vote(v.Representative, v.Timestamp, entry.Hash)
		}
		s.Erase(entry.Hash)
		if result.Status == activeelections.Created {
			s.metrics.promoted.Measure(1)
			s.logger.Info("hinted election started", logfields.SchedulingFlow, logfields.BlockHash(entry.Hash),
				log.Int("voters", len(entry.Voters)), log.Stringable("tally", entry.Tally))
		}
	case activeelections.Rejected:
		if s.elections.RecentlyConfirmed().ExistsRoot(block.QualifiedRoot()) {
			s.Erase(entry.Hash)
		} else {
			// out of hinted budget, retried on the next vacancy
			s.requeue(entry.Hash)
			return false
		}
	}
	return true
}

// lookup returns a nil block when it is not in the ledger yet.
func (s *Service) lookup(hash primitives.Hash) (*primitives.Block, bool, error) {
	txn, err := s.store.BeginRead()
	if err != nil {
		return nil, false, err
	}
	defer txn.Release()

	block, found, err := txn.Block(hash)
	if err != nil || !found {
		return nil, false, err
	}
	confirmed, err := ledger.IsConfirmed(txn, block)
	if err != nil {
		return nil, false, err
	}
	return block, confirmed, nil
}
