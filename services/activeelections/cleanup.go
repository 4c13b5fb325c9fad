// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package activeelections

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-election-scheduler/synchronization"
	"github.com/orbs-network/scribe/log"
)

func (s *Service) startCleanup(bgCtx context.Context) govnr.ShutdownWaiter {
	return synchronization.NewPeriodicalTrigger(bgCtx, "active-elections-cleanup", s.config.ActiveElectionsCleanupInterval(), s.logger, s.cleanup, nil)
}

// cleanup removes elections that finished on their own.
func (s *Service) cleanup() {
	var confirmed, dropped int
	for _, entry := range s.registry.List() {
		switch entry.Election.Status() {
		case StatusConfirmed:
			if s.Confirmed(entry.Election) {
				confirmed++
			}
		case StatusCancelled, StatusExpired:
			if s.Erase(entry.Election) {
				dropped++
			}
		}
	}
	if confirmed+dropped > 0 {
		s.logger.Info("removed finished elections", log.Int("confirmed", confirmed), log.Int("dropped", dropped))
	}
}
