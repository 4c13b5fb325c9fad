// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

const (
	ACTIVE_ELECTIONS_SIZE                        = "ACTIVE_ELECTIONS_SIZE"
	ACTIVE_ELECTIONS_HINTED_LIMIT_PERCENTAGE     = "ACTIVE_ELECTIONS_HINTED_LIMIT_PERCENTAGE"
	ACTIVE_ELECTIONS_OPTIMISTIC_LIMIT_PERCENTAGE = "ACTIVE_ELECTIONS_OPTIMISTIC_LIMIT_PERCENTAGE"
	ACTIVE_ELECTIONS_CLEANUP_INTERVAL            = "ACTIVE_ELECTIONS_CLEANUP_INTERVAL"
	RECENTLY_CONFIRMED_SIZE                      = "RECENTLY_CONFIRMED_SIZE"

	PRIORITY_SCHEDULER_BUCKET_MAX_BLOCKS         = "PRIORITY_SCHEDULER_BUCKET_MAX_BLOCKS"
	PRIORITY_SCHEDULER_BUCKET_RESERVED_ELECTIONS = "PRIORITY_SCHEDULER_BUCKET_RESERVED_ELECTIONS"
	PRIORITY_SCHEDULER_UPDATE_INTERVAL           = "PRIORITY_SCHEDULER_UPDATE_INTERVAL"

	HINTING_MAX_SIZE                  = "HINTING_MAX_SIZE"
	HINTING_MAX_VOTERS                = "HINTING_MAX_VOTERS"
	HINTING_ELECTION_START_VOTERS_MIN = "HINTING_ELECTION_START_VOTERS_MIN"
	HINTING_ELECTION_START_TALLY_MIN  = "HINTING_ELECTION_START_TALLY_MIN"
	HINTING_AGE_CUTOFF                = "HINTING_AGE_CUTOFF"
	HINTING_CHECK_INTERVAL            = "HINTING_CHECK_INTERVAL"

	BACKLOG_POPULATION_ENABLED    = "BACKLOG_POPULATION_ENABLED"
	BACKLOG_POPULATION_CHUNK_SIZE = "BACKLOG_POPULATION_CHUNK_SIZE"
	BACKLOG_POPULATION_DUTY_CYCLE = "BACKLOG_POPULATION_DUTY_CYCLE"

	OPTIMISTIC_SCHEDULER_ENABLED       = "OPTIMISTIC_SCHEDULER_ENABLED"
	OPTIMISTIC_SCHEDULER_GAP_THRESHOLD = "OPTIMISTIC_SCHEDULER_GAP_THRESHOLD"
	OPTIMISTIC_SCHEDULER_MAX_SIZE      = "OPTIMISTIC_SCHEDULER_MAX_SIZE"

	METRICS_REPORT_INTERVAL         = "METRICS_REPORT_INTERVAL"
	LOGGER_FULL_LOG                 = "LOGGER_FULL_LOG"
	LOGGER_FILE_TRUNCATION_INTERVAL = "LOGGER_FILE_TRUNCATION_INTERVAL"
)
