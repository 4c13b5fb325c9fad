// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/logfields"
	"time"
)

// PeriodicalTrigger calls a handler on every tick of a supervised goroutine. It stops when its
// parent context ends or Stop is called, and runs onStop once on the way out.
type PeriodicalTrigger struct {
	govnr.TreeSupervisor
	cancel context.CancelFunc
	done   govnr.ContextEndedChan
}

func NewPeriodicalTrigger(parent context.Context, name string, interval time.Duration, logger logfields.Errorer, handler func(), onStop func()) *PeriodicalTrigger {
	ctx, cancel := context.WithCancel(parent)
	ticker := time.NewTicker(interval)

	// govnr restarts the loop after a recovered panic, so the ticker outlives a single run
	handle := govnr.Forever(ctx, name, logfields.GovnrErrorer(logger), func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				if onStop != nil {
					onStop()
				}
				return
			case <-ticker.C:
				handler()
			}
		}
	})

	t := &PeriodicalTrigger{cancel: cancel, done: handle.Done()}
	t.Supervise(handle)
	return t
}

// Done is closed once the trigger goroutine has exited.
func (t *PeriodicalTrigger) Done() govnr.ContextEndedChan {
	return t.done
}

// Stop returns after onStop has run.
func (t *PeriodicalTrigger) Stop() {
	t.cancel()
	<-t.done
}
