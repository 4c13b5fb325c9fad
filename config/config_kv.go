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

type config struct {
	kv map[string]NodeConfigValue
}

func emptyConfig() mutableNodeConfig {
	return &config{
		kv: make(map[string]NodeConfigValue),
	}
}

func (c *config) Set(key string, value NodeConfigValue) mutableNodeConfig {
	c.kv[key] = value
	return c
}

func (c *config) SetDuration(key string, value time.Duration) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{DurationValue: value}
	return c
}

func (c *config) SetUint32(key string, value uint32) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{Uint32Value: value}
	return c
}

func (c *config) SetString(key string, value string) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{StringValue: value}
	return c
}

func (c *config) SetBool(key string, value bool) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{BoolValue: value}
	return c
}

func (c *config) ActiveElectionsSize() uint32 {
	return c.kv[ACTIVE_ELECTIONS_SIZE].Uint32Value
}

func (c *config) ActiveElectionsHintedLimitPercentage() uint32 {
	return c.kv[ACTIVE_ELECTIONS_HINTED_LIMIT_PERCENTAGE].Uint32Value
}

func (c *config) ActiveElectionsOptimisticLimitPercentage() uint32 {
	return c.kv[ACTIVE_ELECTIONS_OPTIMISTIC_LIMIT_PERCENTAGE].Uint32Value
}

func (c *config) ActiveElectionsCleanupInterval() time.Duration {
	return c.kv[ACTIVE_ELECTIONS_CLEANUP_INTERVAL].DurationValue
}

func (c *config) RecentlyConfirmedSize() uint32 {
	return c.kv[RECENTLY_CONFIRMED_SIZE].Uint32Value
}

func (c *config) PrioritySchedulerBucketMaxBlocks() uint32 {
	return c.kv[PRIORITY_SCHEDULER_BUCKET_MAX_BLOCKS].Uint32Value
}

func (c *config) PrioritySchedulerBucketReservedElections() uint32 {
	return c.kv[PRIORITY_SCHEDULER_BUCKET_RESERVED_ELECTIONS].Uint32Value
}

func (c *config) PrioritySchedulerUpdateInterval() time.Duration {
	return c.kv[PRIORITY_SCHEDULER_UPDATE_INTERVAL].DurationValue
}

func (c *config) HintingMaxSize() uint32 {
	return c.kv[HINTING_MAX_SIZE].Uint32Value
}

func (c *config) HintingMaxVoters() uint32 {
	return c.kv[HINTING_MAX_VOTERS].Uint32Value
}

func (c *config) HintingElectionStartVotersMin() uint32 {
	return c.kv[HINTING_ELECTION_START_VOTERS_MIN].Uint32Value
}

// HintingElectionStartTallyMin is stored as a decimal string; Validate rejects unparsable values.
func (c *config) HintingElectionStartTallyMin() primitives.Amount {
	amount, err := primitives.AmountFromDecimal(c.kv[HINTING_ELECTION_START_TALLY_MIN].StringValue)
	if err != nil {
		panic(err)
	}
	return amount
}

func (c *config) HintingAgeCutoff() time.Duration {
	return c.kv[HINTING_AGE_CUTOFF].DurationValue
}

func (c *config) HintingCheckInterval() time.Duration {
	return c.kv[HINTING_CHECK_INTERVAL].DurationValue
}

func (c *config) BacklogPopulationEnabled() bool {
	return c.kv[BACKLOG_POPULATION_ENABLED].BoolValue
}

func (c *config) BacklogPopulationChunkSize() uint32 {
	return c.kv[BACKLOG_POPULATION_CHUNK_SIZE].Uint32Value
}

func (c *config) BacklogPopulationDutyCycle() uint32 {
	return c.kv[BACKLOG_POPULATION_DUTY_CYCLE].Uint32Value
}

func (c *config) OptimisticSchedulerEnabled() bool {
	return c.kv[OPTIMISTIC_SCHEDULER_ENABLED].BoolValue
}

func (c *config) OptimisticSchedulerGapThreshold() uint32 {
	return c.kv[OPTIMISTIC_SCHEDULER_GAP_THRESHOLD].Uint32Value
}

func (c *config) OptimisticSchedulerMaxSize() uint32 {
	return c.kv[OPTIMISTIC_SCHEDULER_MAX_SIZE].Uint32Value
}

func (c *config) MetricsReportInterval() time.Duration {
	return c.kv[METRICS_REPORT_INTERVAL].DurationValue
}

func (c *config) LoggerFullLog() bool {
	return c.kv[LOGGER_FULL_LOG].BoolValue
}

func (c *config) LoggerFileTruncationInterval() time.Duration {
	return c.kv[LOGGER_FILE_TRUNCATION_INTERVAL].DurationValue
}
