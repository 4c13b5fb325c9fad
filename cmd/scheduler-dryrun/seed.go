// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"encoding/binary"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"golang.org/x/crypto/blake2b"
)

const seedBatchSize = 1000

func seedAccount(index int) primitives.Account {
	var buf [16]byte
	copy(buf[:], "dryrun-a")
	binary.BigEndian.PutUint64(buf[8:], uint64(index))
	return primitives.Account(blake2b.Sum256(buf[:]))
}

func seedHash(account primitives.Account, height uint64) primitives.Hash {
	buf := make([]byte, 0, primitives.HashSize+8)
	buf = append(buf, account[:]...)
	buf = binary.BigEndian.AppendUint64(buf, height)
	return primitives.Hash(blake2b.Sum256(buf))
}

// seedChain derives a deterministic account chain; balances spread over the tiers and a third of the
// accounts have part of their chain confirmed.
func seedChain(batch ledger.Batch, index int) error {
	account := seedAccount(index)
	blocks := uint64(1 + index%5)
	confirmed := uint64(index%3) % blocks
	balance := primitives.AmountPow2(uint(index % 128))

	var previous, frontier primitives.Hash
	for height := uint64(1); height <= blocks; height++ {
		block := &primitives.Block{
			Hash:     seedHash(account, height),
			Account:  account,
			Previous: previous,
			Balance:  balance,
			Height:   height,
		}
		if err := batch.PutBlock(block); err != nil {
			return err
		}
		if height == confirmed {
			frontier = block.Hash
		}
		previous = block.Hash
	}

	if err := batch.PutAccount(account, primitives.AccountInfo{
		Head:       previous,
		OpenBlock:  seedHash(account, 1),
		Balance:    balance,
		BlockCount: blocks,
	}); err != nil {
		return err
	}
	return batch.PutConfirmationHeight(account, primitives.ConfirmationHeightInfo{Height: confirmed, Frontier: frontier})
}

func seedLedger(store ledger.WritableStore, accounts int) error {
	for from := 0; from < accounts; from += seedBatchSize {
		to := from + seedBatchSize
		if to > accounts {
			to = accounts
		}
		if err := store.Update(func(batch ledger.Batch) error {
			for i := from; i < to; i++ {
				if err := seedChain(batch, i); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}
