// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/pkg/errors"
)

const (
	prefixAccount            = 'a'
	prefixBlock              = 'b'
	prefixSuccessor          = 's'
	prefixConfirmationHeight = 'c'
	prefixWeight             = 'w'
)

// KeyValueReader is the ordered read view every adapter provides.
type KeyValueReader interface {
	Get(key []byte) (value []byte, found bool, err error)
	// Iterate visits keys carrying prefix, starting at start (inclusive), while fn returns true.
	Iterate(prefix []byte, start []byte, fn func(key []byte, value []byte) (bool, error)) error
	Release()
}

type KeyValueWriter interface {
	Put(key []byte, value []byte) error
}

func key(prefix byte, id [primitives.HashSize]byte) []byte {
	k := make([]byte, 1+primitives.HashSize)
	k[0] = prefix
	copy(k[1:], id[:])
	return k
}

// NewReadTransaction layers the ledger schema over an adapter snapshot.
func NewReadTransaction(kv KeyValueReader) ReadTransaction {
	return &readTransaction{kv: kv}
}

type readTransaction struct {
	kv KeyValueReader
}

func (t *readTransaction) Account(account primitives.Account) (primitives.AccountInfo, bool, error) {
	value, found, err := t.kv.Get(key(prefixAccount, account))
	if err != nil || !found {
		return primitives.AccountInfo{}, false, errors.Wrapf(err, "failed reading account %s", account)
	}
	info, err := decodeAccountInfo(value)
	return info, err == nil, err
}

func (t *readTransaction) ConfirmationHeight(account primitives.Account) (primitives.ConfirmationHeightInfo, error) {
	value, found, err := t.kv.Get(key(prefixConfirmationHeight, account))
	if err != nil || !found {
		return primitives.ConfirmationHeightInfo{}, errors.Wrapf(err, "failed reading confirmation height of %s", account)
	}
	return decodeConfirmationHeight(value)
}

func (t *readTransaction) Block(hash primitives.Hash) (*primitives.Block, bool, error) {
	value, found, err := t.kv.Get(key(prefixBlock, hash))
	if err != nil || !found {
		return nil, false, errors.Wrapf(err, "failed reading block %s", hash)
	}
	block, err := decodeBlock(value)
	return block, err == nil, err
}

func (t *readTransaction) Successor(hash primitives.Hash) (primitives.Hash, bool, error) {
	value, found, err := t.kv.Get(key(prefixSuccessor, hash))
	if err != nil || !found {
		return primitives.Hash{}, false, errors.Wrapf(err, "failed reading successor of %s", hash)
	}
	var successor primitives.Hash
	if len(value) != primitives.HashSize {
		return successor, false, errors.Errorf("corrupt successor entry for %s", hash)
	}
	copy(successor[:], value)
	return successor, true, nil
}

func (t *readTransaction) Weight(representative primitives.Account) (primitives.Amount, error) {
	value, found, err := t.kv.Get(key(prefixWeight, representative))
	if err != nil || !found {
		return primitives.Amount{}, errors.Wrapf(err, "failed reading weight of %s", representative)
	}
	return primitives.AmountFromBytes(value), nil
}

func (t *readTransaction) ForEachAccount(from primitives.Account, limit int, fn func(account primitives.Account, info primitives.AccountInfo) error) (primitives.Account, bool, error) {
	prefix := []byte{prefixAccount}
	visited := 0
	next := from
	more := false

	err := t.kv.Iterate(prefix, key(prefixAccount, from), func(k []byte, value []byte) (bool, error) {
		if visited == limit {
			more = true
			return false, nil
		}

		var account primitives.Account
		copy(account[:], k[1:])
		info, err := decodeAccountInfo(value)
		if err != nil {
			return false, errors.Wrapf(err, "corrupt account entry %s", account)
		}
		if err := fn(account, info); err != nil {
			return false, err
		}

		visited++
		next = account.Next()
		// the maximal account has no successor key
		return !next.IsZero(), nil
	})

	return next, more, err
}

func (t *readTransaction) Release() {
	t.kv.Release()
}

func NewBatch(kv KeyValueWriter) Batch {
	return &batch{kv: kv}
}

type batch struct {
	kv KeyValueWriter
}

func (b *batch) PutBlock(block *primitives.Block) error {
	if err := b.kv.Put(key(prefixBlock, block.Hash), encodeBlock(block)); err != nil {
		return errors.Wrapf(err, "failed writing block %s", block.Hash)
	}
	if !block.IsOpen() {
		if err := b.kv.Put(key(prefixSuccessor, block.Previous), block.Hash[:]); err != nil {
			return errors.Wrapf(err, "failed writing successor of %s", block.Previous)
		}
	}
	return nil
}

func (b *batch) PutAccount(account primitives.Account, info primitives.AccountInfo) error {
	return errors.Wrapf(b.kv.Put(key(prefixAccount, account), encodeAccountInfo(info)), "failed writing account %s", account)
}

func (b *batch) PutConfirmationHeight(account primitives.Account, info primitives.ConfirmationHeightInfo) error {
	return errors.Wrapf(b.kv.Put(key(prefixConfirmationHeight, account), encodeConfirmationHeight(info)), "failed writing confirmation height of %s", account)
}

func (b *batch) PutWeight(representative primitives.Account, weight primitives.Amount) error {
	w := weight.Bytes32()
	return errors.Wrapf(b.kv.Put(key(prefixWeight, representative), w[:]), "failed writing weight of %s", representative)
}
