// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package primitives

import (
	"github.com/orbs-network/go-mock"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestAccount_NextCarries(t *testing.T) {
	var a Account
	a[HashSize-1] = 0xff
	a[HashSize-2] = 0x01

	next := a.Next()

	require.EqualValues(t, 0x02, next[HashSize-2], "carry did not propagate")
	require.EqualValues(t, 0x00, next[HashSize-1], "low byte did not wrap")
}

func TestAccount_NextOfMaxWrapsToZero(t *testing.T) {
	var a Account
	for i := range a {
		a[i] = 0xff
	}
	require.True(t, a.Next().IsZero(), "max account should wrap to zero")
}

func TestBlock_QualifiedRootOfOpenBlockUsesAccount(t *testing.T) {
	b := &Block{Hash: Hash{1}, Account: Account{2}}
	require.Equal(t, Root(Account{2}), b.QualifiedRoot().Root)
	require.True(t, b.QualifiedRoot().Previous.IsZero())
}

func TestBlock_QualifiedRootUsesPrevious(t *testing.T) {
	b := &Block{Hash: Hash{1}, Account: Account{2}, Previous: Hash{3}}
	require.Equal(t, Root(Hash{3}), b.QualifiedRoot().Root)
	require.Equal(t, Hash{3}, b.QualifiedRoot().Previous)
}

func TestAmount_DecimalRoundTrip(t *testing.T) {
	a, err := AmountFromDecimal("100000000000000000000000000000000000")
	require.NoError(t, err)
	require.Equal(t, "100000000000000000000000000000000000", a.String())
	require.True(t, NewAmount(5).Less(a))
}

func TestAmount_Pow2(t *testing.T) {
	require.Equal(t, "1024", AmountPow2(10).String())
	require.Equal(t, 0, AmountPow2(3).Cmp(NewAmount(8)))
}

func TestMaxAmount(t *testing.T) {
	require.Equal(t, NewAmount(7), MaxAmount(NewAmount(3), NewAmount(7)))
	require.Equal(t, NewAmount(7), MaxAmount(NewAmount(7), NewAmount(3)))
}

type accountSink struct {
	mock.Mock
}

func (s *accountSink) Put(info AccountInfo) {
	s.Called(info)
}

func TestAmount_EqualComparesValue(t *testing.T) {
	require.True(t, NewAmount(5).Equal(NewAmount(2).Add(NewAmount(3))))
	require.False(t, NewAmount(5).Equal(NewAmount(6)))
}

func TestAccountInfo_MatchesAsMockArgument(t *testing.T) {
	sink := &accountSink{}
	expected := AccountInfo{Balance: AmountPow2(100), BlockCount: 3}
	sink.When("Put", expected).Times(1)
	sink.Never("Put", AccountInfo{Balance: NewAmount(1), BlockCount: 3})

	sink.Put(AccountInfo{Balance: AmountPow2(99).Add(AmountPow2(99)), BlockCount: 3})

	ok, err := sink.Verify()
	require.True(t, ok, "an equal balance built another way should match: %v", err)
}
