// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package logfields

import (
	"fmt"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/scribe/log"
)

// SchedulingFlow marks lines that stay visible when full logging is off.
var SchedulingFlow = log.String("flow", "scheduling")

func Account(account primitives.Account) *log.Field {
	return log.Stringable("account", account)
}

func BlockHash(hash primitives.Hash) *log.Field {
	return log.Stringable("block-hash", hash)
}

func QualifiedRoot(root primitives.QualifiedRoot) *log.Field {
	return log.Stringable("qualified-root", root)
}

func Behavior(behavior fmt.Stringer) *log.Field {
	return log.Stringable("behavior", behavior)
}

func Tier(tier int) *log.Field {
	return log.Int("tier", tier)
}

func Priority(priority uint64) *log.Field {
	return log.Uint64("priority", priority)
}
