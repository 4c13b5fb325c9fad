// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"fmt"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"reflect"
	"runtime"
	"strings"
)

func Validate(cfg NodeConfig) {
	requirePositive(cfg.ActiveElectionsSize)
	requirePositive(cfg.PrioritySchedulerBucketMaxBlocks)
	requirePositive(cfg.BacklogPopulationChunkSize)
	requirePositive(cfg.HintingMaxSize)
	requirePositive(cfg.HintingMaxVoters)
	requireAtMost(cfg.ActiveElectionsHintedLimitPercentage, 100)
	requireAtMost(cfg.ActiveElectionsOptimisticLimitPercentage, 100)
	requireAtMost(cfg.BacklogPopulationDutyCycle, 100)
	requireAtMost(cfg.HintingElectionStartVotersMin, cfg.HintingMaxVoters())

	if c, ok := cfg.(*config); ok {
		if _, err := primitives.AmountFromDecimal(c.kv[HINTING_ELECTION_START_TALLY_MIN].StringValue); err != nil {
			panic(fmt.Sprintf("%s: %s", HINTING_ELECTION_START_TALLY_MIN, err))
		}
	}
}

func requirePositive(f func() uint32) {
	if f() == 0 {
		panic(fmt.Sprintf("%s must be positive", funcName(f)))
	}
}

func requireAtMost(f func() uint32, max uint32) {
	if f() > max {
		panic(fmt.Sprintf("%s must be at most %d, got %d", funcName(f), max, f()))
	}
}

func funcName(i interface{}) string {
	fullName := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	lastDot := strings.LastIndex(fullName, ".")
	return strings.TrimSuffix(fullName[lastDot+1:], "-fm")
}
