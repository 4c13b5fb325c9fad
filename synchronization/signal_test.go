// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization_test

import (
	"github.com/orbs-network/orbs-election-scheduler/synchronization"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSignal_CoalescesNotifications(t *testing.T) {
	s := synchronization.NewSignal()
	s.Notify()
	s.Notify()
	s.Notify()

	select {
	case <-s.C():
	default:
		t.Fatal("expected a pending wake-up")
	}

	select {
	case <-s.C():
		t.Fatal("notifications should coalesce into a single wake-up")
	default:
	}
}

func TestSignal_NotifyDoesNotBlockWithoutListener(t *testing.T) {
	s := synchronization.NewSignal()
	require.NotPanics(t, func() {
		for i := 0; i < 10; i++ {
			s.Notify()
		}
	})
}
