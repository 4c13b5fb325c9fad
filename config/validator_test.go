// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	require.NotPanics(t, func() {
		Validate(defaultProductionConfig())
	})
	require.NotPanics(t, func() {
		Validate(ForTests())
	})
}

func TestValidateConfig_PanicsOnDutyCycleAboveHundred(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetUint32(BACKLOG_POPULATION_DUTY_CYCLE, 101)

	require.Panics(t, func() {
		Validate(cfg)
	})
}

func TestValidateConfig_PanicsOnInvalidTally(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetString(HINTING_ELECTION_START_TALLY_MIN, "lots")

	require.Panics(t, func() {
		Validate(cfg)
	})
}

func TestValidateConfig_PanicsWhenVoterThresholdUnreachable(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetUint32(HINTING_MAX_VOTERS, 10)

	require.Panics(t, func() {
		Validate(cfg)
	})
}
