// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package primitives

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Amount is an unsigned balance or voting weight. Balances occupy the low 128 bits.
type Amount struct {
	v uint256.Int
}

func NewAmount(value uint64) Amount {
	var a Amount
	a.v.SetUint64(value)
	return a
}

// AmountPow2 returns 2^exp.
func AmountPow2(exp uint) Amount {
	var a Amount
	a.v.Lsh(uint256.NewInt(1), exp)
	return a
}

func AmountFromDecimal(s string) (Amount, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, errors.Wrapf(err, "invalid amount %q", s)
	}
	return Amount{v: *v}, nil
}

func AmountFromBytes(b []byte) Amount {
	var a Amount
	a.v.SetBytes(b)
	return a
}

func (a Amount) Add(b Amount) Amount {
	var r Amount
	r.v.Add(&a.v, &b.v)
	return r
}

func (a Amount) Sub(b Amount) Amount {
	var r Amount
	r.v.Sub(&a.v, &b.v)
	return r
}

func (a Amount) Div(b Amount) Amount {
	var r Amount
	r.v.Div(&a.v, &b.v)
	return r
}

func (a Amount) MulUint64(n uint64) Amount {
	var r Amount
	r.v.Mul(&a.v, uint256.NewInt(n))
	return r
}

func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// Equal lets comparison helpers that cannot see the unexported value, such as argument matchers, compare amounts.
func (a Amount) Equal(b Amount) bool {
	return a.v.Eq(&b.v)
}

func (a Amount) Less(b Amount) bool {
	return a.v.Lt(&b.v)
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

func (a Amount) Bytes32() [32]byte {
	return a.v.Bytes32()
}

// String renders the amount in decimal.
func (a Amount) String() string {
	return a.v.Dec()
}

func MaxAmount(a, b Amount) Amount {
	if a.Less(b) {
		return b
	}
	return a
}
