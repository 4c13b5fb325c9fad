// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"time"
)

type NodeConfig interface {
	// active elections
	ActiveElectionsSize() uint32
	ActiveElectionsHintedLimitPercentage() uint32
	ActiveElectionsOptimisticLimitPercentage() uint32
	ActiveElectionsCleanupInterval() time.Duration
	RecentlyConfirmedSize() uint32

	// priority scheduler
	PrioritySchedulerBucketMaxBlocks() uint32
	PrioritySchedulerBucketReservedElections() uint32
	PrioritySchedulerUpdateInterval() time.Duration

	// hinting
	HintingMaxSize() uint32
	HintingMaxVoters() uint32
	HintingElectionStartVotersMin() uint32
	HintingElectionStartTallyMin() primitives.Amount
	HintingAgeCutoff() time.Duration
	HintingCheckInterval() time.Duration

	// backlog population
	BacklogPopulationEnabled() bool
	BacklogPopulationChunkSize() uint32
	BacklogPopulationDutyCycle() uint32

	// optimistic scheduler
	OptimisticSchedulerEnabled() bool
	OptimisticSchedulerGapThreshold() uint32
	OptimisticSchedulerMaxSize() uint32

	// instrumentation
	MetricsReportInterval() time.Duration
	LoggerFullLog() bool
	LoggerFileTruncationInterval() time.Duration
}

type mutableNodeConfig interface {
	NodeConfig
	Set(key string, value NodeConfigValue) mutableNodeConfig
	SetDuration(key string, value time.Duration) mutableNodeConfig
	SetUint32(key string, value uint32) mutableNodeConfig
	SetString(key string, value string) mutableNodeConfig
	SetBool(key string, value bool) mutableNodeConfig
	Modify(newValues ...NodeConfigKeyValue)
}

type NodeConfigKeyValue struct {
	Key   string
	Value NodeConfigValue
}

type NodeConfigValue struct {
	Uint32Value   uint32
	DurationValue time.Duration
	StringValue   string
	BoolValue     bool
}
