// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package activeelections

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/logfields"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/metric"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/scribe/log"
	"math"
	"sync"
	"time"
)

var LogTag = log.Service("active-elections")

type Config interface {
	ActiveElectionsSize() uint32
	ActiveElectionsHintedLimitPercentage() uint32
	ActiveElectionsOptimisticLimitPercentage() uint32
	ActiveElectionsCleanupInterval() time.Duration
	RecentlyConfirmedSize() uint32
}

type metrics struct {
	size       *metric.Gauge
	byBehavior map[Behavior]*metric.Gauge
	inserted   *metric.Rate
	erased     *metric.Rate
	confirmed  *metric.Rate
}

func newMetrics(factory metric.Factory) *metrics {
	m := &metrics{
		size:       factory.NewGauge("ActiveElections.Size"),
		byBehavior: make(map[Behavior]*metric.Gauge),
		inserted:   factory.NewRate("ActiveElections.Inserted.Rate"),
		erased:     factory.NewRate("ActiveElections.Erased.Rate"),
		confirmed:  factory.NewRate("ActiveElections.Confirmed.Rate"),
	}
	for _, b := range Behaviors {
		m.byBehavior[b] = factory.NewGauge("ActiveElections." + b.String() + ".Size")
	}
	return m
}

// Service owns the registry of active elections. It is the global vacancy oracle consulted by every
// scheduler and the single place elections are created, erased and recorded as confirmed.
type Service struct {
	govnr.TreeSupervisor

	logger            log.Logger
	config            Config
	factory           ElectionFactory
	registry          *Registry
	recentlyConfirmed *RecentlyConfirmed
	metrics           *metrics

	mu struct {
		sync.RWMutex
		byHash           map[primitives.Hash]Election
		vacancyObservers []func()
	}
}

func NewService(ctx context.Context, config Config, factory ElectionFactory, parentLogger log.Logger, metricFactory metric.Factory) *Service {
	s := &Service{
		logger:            parentLogger.WithTags(LogTag),
		config:            config,
		factory:           factory,
		registry:          NewRegistry(),
		recentlyConfirmed: NewRecentlyConfirmed(int(config.RecentlyConfirmedSize())),
		metrics:           newMetrics(metricFactory),
	}
	s.mu.byHash = make(map[primitives.Hash]Election)

	if config.ActiveElectionsCleanupInterval() > 0 {
		s.Supervise(s.startCleanup(ctx))
	}

	return s
}

// OnVacancyUpdate registers an observer called whenever an election leaves the registry.
func (s *Service) OnVacancyUpdate(observer func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mu.vacancyObservers = append(s.mu.vacancyObservers, observer)
}

// Insert starts an election for block unless its root is already active or was just confirmed.
// Non-priority behaviors are also rejected while their budget is exhausted; priority admission
// is decided by the per-tier election sets.
func (s *Service) Insert(block *primitives.Block, behavior Behavior, tier Tier, priority Priority, onErase EraseCallback) InsertResult {
	root := block.QualifiedRoot()

	if existing, found := s.registry.Lookup(root); found {
		return InsertResult{Election: existing, Status: Existed}
	}
	if s.recentlyConfirmed.ExistsRoot(root) {
		return InsertResult{Status: Rejected}
	}
	if behavior != BehaviorPriority && behavior != BehaviorManual && s.Vacancy(behavior) <= 0 {
		return InsertResult{Status: Rejected}
	}

	election := s.factory.NewElection(block, behavior)

	s.mu.Lock()
	inserted := s.registry.Insert(election, behavior, tier, priority, s.onErased(onErase))
	if inserted {
		s.mu.byHash[block.Hash] = election
	}
	s.mu.Unlock()

	if !inserted {
		// lost a race against another insert for the same root
		election.Cancel()
		if existing, found := s.registry.Lookup(root); found {
			return InsertResult{Election: existing, Status: Existed}
		}
		return InsertResult{Status: Rejected}
	}

	s.metrics.inserted.Measure(1)
	s.updateSizeMetrics()
	s.logger.Info("election started", logfields.SchedulingFlow, logfields.BlockHash(block.Hash), logfields.QualifiedRoot(root),
		logfields.Behavior(behavior), logfields.Tier(int(tier)), logfields.Priority(uint64(priority)))

	return InsertResult{Election: election, Status: Created}
}

func (s *Service) onErased(onErase EraseCallback) EraseCallback {
	return func(election Election) {
		hash := election.Candidate().Hash

		s.mu.Lock()
		if s.mu.byHash[hash] == election {
			delete(s.mu.byHash, hash)
		}
		observers := s.mu.vacancyObservers
		s.mu.Unlock()

		s.metrics.erased.Measure(1)
		s.updateSizeMetrics()

		if onErase != nil {
			onErase(election)
		}
		for _, observer := range observers {
			observer()
		}
	}
}

func (s *Service) updateSizeMetrics() {
	s.metrics.size.Update(int64(s.registry.Size()))
	for b, gauge := range s.metrics.byBehavior {
		gauge.Update(int64(s.registry.SizeBehavior(b)))
	}
}

// Limit is the election budget of a behavior. Manual elections are unbounded.
func (s *Service) Limit(behavior Behavior) int64 {
	size := int64(s.config.ActiveElectionsSize())
	switch behavior {
	case BehaviorManual:
		return math.MaxInt64
	case BehaviorHinted:
		return size * int64(s.config.ActiveElectionsHintedLimitPercentage()) / 100
	case BehaviorOptimistic:
		return size * int64(s.config.ActiveElectionsOptimisticLimitPercentage()) / 100
	}
	return size
}

// Vacancy may be negative when a behavior runs over its budget.
func (s *Service) Vacancy(behavior Behavior) int64 {
	if behavior == BehaviorManual {
		return math.MaxInt64
	}
	return s.Limit(behavior) - int64(s.registry.SizeBehavior(behavior))
}

// Cancel stops an election and removes it. Returns false if it was no longer active.
func (s *Service) Cancel(election Election) bool {
	if !s.registry.Erase(election) {
		return false
	}
	election.Cancel()
	return true
}

func (s *Service) Erase(election Election) bool {
	return s.registry.Erase(election)
}

// Confirmed records the winner of a finished election before removing it, so schedulers never
// observe the root as both inactive and unconfirmed. When the election was already removed by
// someone else the record is rolled back.
func (s *Service) Confirmed(election Election) bool {
	winner := election.Winner()
	if winner == nil {
		winner = election.Candidate()
	}
	recorded := s.recentlyConfirmed.Put(election.QualifiedRoot(), winner.Hash)
	if !s.registry.Erase(election) {
		if recorded {
			s.recentlyConfirmed.Erase(winner.Hash)
		}
		return false
	}
	s.metrics.confirmed.Measure(1)
	return true
}

// Vote delivers a vote to the elections of the hashes it covers and returns the hashes that have no
// active election.
func (s *Service) Vote(vote *primitives.Vote) []primitives.Hash {
	var inactive []primitives.Hash
	for _, hash := range vote.Hashes {
		if election, found := s.ElectionFor(hash); found {
			election.Vote(vote.Representative, vote.Timestamp, hash)
		} else {
			inactive = append(inactive, hash)
		}
	}
	return inactive
}

func (s *Service) Active(hash primitives.Hash) bool {
	_, found := s.ElectionFor(hash)
	return found
}

func (s *Service) ElectionFor(hash primitives.Hash) (Election, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, found := s.mu.byHash[hash]
	return election, found
}

func (s *Service) Exists(election Election) bool {
	return s.registry.Exists(election)
}

func (s *Service) ActiveRoot(root primitives.QualifiedRoot) bool {
	return s.registry.ExistsRoot(root)
}

func (s *Service) Election(root primitives.QualifiedRoot) (Election, bool) {
	return s.registry.Lookup(root)
}

func (s *Service) List() []Entry {
	return s.registry.List()
}

func (s *Service) Size() int {
	return s.registry.Size()
}

func (s *Service) RecentlyConfirmed() *RecentlyConfirmed {
	return s.recentlyConfirmed
}

func (s *Service) Registry() *Registry {
	return s.registry
}
