// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import "time"

// all other configs are variations from the production one
func defaultProductionConfig() mutableNodeConfig {
	cfg := emptyConfig()

	// priority elections; hinted and optimistic budgets are carved as percentages of this
	cfg.SetUint32(ACTIVE_ELECTIONS_SIZE, 5000)
	cfg.SetUint32(ACTIVE_ELECTIONS_HINTED_LIMIT_PERCENTAGE, 20)
	cfg.SetUint32(ACTIVE_ELECTIONS_OPTIMISTIC_LIMIT_PERCENTAGE, 10)
	cfg.SetDuration(ACTIVE_ELECTIONS_CLEANUP_INTERVAL, 500*time.Millisecond)
	cfg.SetUint32(RECENTLY_CONFIRMED_SIZE, 65536)

	cfg.SetUint32(PRIORITY_SCHEDULER_BUCKET_MAX_BLOCKS, 8192)
	cfg.SetUint32(PRIORITY_SCHEDULER_BUCKET_RESERVED_ELECTIONS, 100)
	cfg.SetDuration(PRIORITY_SCHEDULER_UPDATE_INTERVAL, 1*time.Second)

	cfg.SetUint32(HINTING_MAX_SIZE, 65536)
	cfg.SetUint32(HINTING_MAX_VOTERS, 64)
	cfg.SetUint32(HINTING_ELECTION_START_VOTERS_MIN, 15)
	// 10^35 raw, roughly 0.1% of supply
	cfg.SetString(HINTING_ELECTION_START_TALLY_MIN, "100000000000000000000000000000000000")
	cfg.SetDuration(HINTING_AGE_CUTOFF, 15*time.Minute)
	cfg.SetDuration(HINTING_CHECK_INTERVAL, 1*time.Second)

	cfg.SetBool(BACKLOG_POPULATION_ENABLED, true)
	cfg.SetUint32(BACKLOG_POPULATION_CHUNK_SIZE, 10000)
	cfg.SetUint32(BACKLOG_POPULATION_DUTY_CYCLE, 50)

	cfg.SetBool(OPTIMISTIC_SCHEDULER_ENABLED, true)
	cfg.SetUint32(OPTIMISTIC_SCHEDULER_GAP_THRESHOLD, 32)
	cfg.SetUint32(OPTIMISTIC_SCHEDULER_MAX_SIZE, 65536)

	cfg.SetDuration(METRICS_REPORT_INTERVAL, 30*time.Second)
	cfg.SetBool(LOGGER_FULL_LOG, false)
	cfg.SetDuration(LOGGER_FILE_TRUNCATION_INTERVAL, 24*time.Hour)

	return cfg
}

func ForProduction() mutableNodeConfig {
	return defaultProductionConfig()
}

// ForTests keeps production semantics but shrinks capacities and intervals so background loops react within test timeouts.
func ForTests() mutableNodeConfig {
	cfg := defaultProductionConfig()

	cfg.SetUint32(ACTIVE_ELECTIONS_SIZE, 100)
	cfg.SetDuration(ACTIVE_ELECTIONS_CLEANUP_INTERVAL, 5*time.Millisecond)
	cfg.SetUint32(RECENTLY_CONFIRMED_SIZE, 1000)

	cfg.SetUint32(PRIORITY_SCHEDULER_BUCKET_MAX_BLOCKS, 250)
	cfg.SetUint32(PRIORITY_SCHEDULER_BUCKET_RESERVED_ELECTIONS, 10)
	cfg.SetDuration(PRIORITY_SCHEDULER_UPDATE_INTERVAL, 10*time.Millisecond)

	cfg.SetUint32(HINTING_MAX_SIZE, 1000)
	cfg.SetString(HINTING_ELECTION_START_TALLY_MIN, "1000")
	cfg.SetDuration(HINTING_CHECK_INTERVAL, 5*time.Millisecond)

	cfg.SetBool(BACKLOG_POPULATION_ENABLED, false)
	cfg.SetUint32(BACKLOG_POPULATION_CHUNK_SIZE, 16)
	cfg.SetUint32(BACKLOG_POPULATION_DUTY_CYCLE, 99)

	cfg.SetUint32(OPTIMISTIC_SCHEDULER_GAP_THRESHOLD, 4)
	cfg.SetUint32(OPTIMISTIC_SCHEDULER_MAX_SIZE, 100)

	cfg.SetDuration(METRICS_REPORT_INTERVAL, 1*time.Second)

	return cfg
}
