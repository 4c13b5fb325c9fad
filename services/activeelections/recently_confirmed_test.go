// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package activeelections_test

import (
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"github.com/orbs-network/orbs-election-scheduler/test/builders"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestRecentlyConfirmed_EvictsOldestFirst(t *testing.T) {
	c := activeelections.NewRecentlyConfirmed(2)
	a, b, d := builders.OpenBlock(), builders.OpenBlock(), builders.OpenBlock()

	require.True(t, c.Put(a.QualifiedRoot(), a.Hash))
	require.True(t, c.Put(b.QualifiedRoot(), b.Hash))
	require.True(t, c.Put(d.QualifiedRoot(), d.Hash))

	require.Equal(t, 2, c.Size())
	require.False(t, c.ExistsHash(a.Hash))
	require.False(t, c.ExistsRoot(a.QualifiedRoot()))
	require.True(t, c.ExistsHash(b.Hash))
	require.True(t, c.ExistsRoot(b.QualifiedRoot()))
	require.True(t, c.ExistsHash(d.Hash))
	require.True(t, c.ExistsRoot(d.QualifiedRoot()))

	back, ok := c.Back()
	require.True(t, ok)
	require.Equal(t, d.Hash, back.Hash)
}

func TestRecentlyConfirmed_IgnoresDuplicates(t *testing.T) {
	c := activeelections.NewRecentlyConfirmed(10)
	block := builders.OpenBlock()
	fork := builders.Fork(block, 1)

	require.True(t, c.Put(block.QualifiedRoot(), block.Hash))
	require.False(t, c.Put(fork.QualifiedRoot(), fork.Hash), "same root")
	require.False(t, c.Put(builders.OpenBlock().QualifiedRoot(), block.Hash), "same hash")
	require.Equal(t, 1, c.Size())
}

func TestRecentlyConfirmed_EraseAndClear(t *testing.T) {
	c := activeelections.NewRecentlyConfirmed(10)
	a, b := builders.OpenBlock(), builders.OpenBlock()
	c.Put(a.QualifiedRoot(), a.Hash)
	c.Put(b.QualifiedRoot(), b.Hash)

	require.True(t, c.Erase(a.Hash))
	require.False(t, c.Erase(a.Hash))
	require.False(t, c.ExistsRoot(a.QualifiedRoot()))
	require.True(t, c.Put(a.QualifiedRoot(), a.Hash), "erased root can be recorded again")

	c.Clear()
	require.Zero(t, c.Size())
	require.False(t, c.ExistsRoot(b.QualifiedRoot()))
	_, ok := c.Back()
	require.False(t, ok)
}
