// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package primitives

import (
	"encoding/hex"
	"github.com/pkg/errors"
)

const HashSize = 32

type Hash [HashSize]byte

type Account [HashSize]byte

// Root identifies a chain position: the previous block hash, or the account itself for open blocks.
type Root [HashSize]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) Root() Root {
	return Root(h)
}

func (a Account) String() string {
	return hex.EncodeToString(a[:])
}

func (a Account) IsZero() bool {
	return a == Account{}
}

func (a Account) Root() Root {
	return Root(a)
}

// Next returns the numerically following account, wrapping to zero after the maximal key.
func (a Account) Next() Account {
	next := a
	for i := HashSize - 1; i >= 0; i-- {
		next[i]++
		if next[i] != 0 {
			break
		}
	}
	return next
}

func (r Root) String() string {
	return hex.EncodeToString(r[:])
}

func (r Root) IsZero() bool {
	return r == Root{}
}

// QualifiedRoot pairs a root with the previous block, distinguishing competing blocks on the same position.
type QualifiedRoot struct {
	Root     Root
	Previous Hash
}

func (q QualifiedRoot) String() string {
	return q.Root.String() + q.Previous.String()
}

func HashFromHex(s string) (Hash, error) {
	var h Hash
	err := decodeFixed(h[:], s)
	return h, err
}

func AccountFromHex(s string) (Account, error) {
	var a Account
	err := decodeFixed(a[:], s)
	return a, err
}

func decodeFixed(dst []byte, s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return errors.Wrapf(err, "invalid hex value %q", s)
	}
	if len(b) != len(dst) {
		return errors.Errorf("expected %d bytes, got %d", len(dst), len(b))
	}
	copy(dst, b)
	return nil
}
