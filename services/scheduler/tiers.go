// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package scheduler

import (
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"sort"
)

// DefaultTierMinimums partitions balances into 63 tiers. Most tiers cover the range where typical
// account balances live, so high-value accounts get dedicated capacity.
func DefaultTierMinimums() []primitives.Amount {
	minimums := []primitives.Amount{primitives.NewAmount(0)}

	region := func(beginExp, endExp uint, count uint64) {
		begin, end := primitives.AmountPow2(beginExp), primitives.AmountPow2(endExp)
		width := end.Sub(begin).Div(primitives.NewAmount(count))
		for i := uint64(0); i < count; i++ {
			minimums = append(minimums, begin.Add(width.MulUint64(i)))
		}
	}

	region(79, 88, 1)
	region(88, 92, 2)
	region(92, 96, 4)
	region(96, 100, 8)
	region(100, 104, 16)
	region(104, 108, 16)
	region(108, 112, 8)
	region(112, 116, 4)
	region(116, 120, 2)
	minimums = append(minimums, primitives.AmountPow2(120))

	return minimums
}

// tierOf returns the index of the last minimum not above balance.
func tierOf(minimums []primitives.Amount, balance primitives.Amount) int {
	i := sort.Search(len(minimums), func(i int) bool {
		return balance.Less(minimums[i])
	})
	if i == 0 {
		return 0
	}
	return i - 1
}
