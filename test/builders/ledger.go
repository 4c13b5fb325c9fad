// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package builders

import (
	"encoding/binary"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"golang.org/x/crypto/blake2b"
	"sync/atomic"
)

var accountSeq uint64

// AccountFromSeed derives a deterministic account key.
func AccountFromSeed(seed uint64) primitives.Account {
	var buf [9]byte
	buf[0] = 'a'
	binary.BigEndian.PutUint64(buf[1:], seed)
	return primitives.Account(blake2b.Sum256(buf[:]))
}

func BlockHash(account primitives.Account, height uint64) primitives.Hash {
	buf := make([]byte, 0, primitives.HashSize+8)
	buf = append(buf, account[:]...)
	buf = binary.BigEndian.AppendUint64(buf, height)
	return primitives.Hash(blake2b.Sum256(buf))
}

type chain struct {
	account   primitives.Account
	balances  []primitives.Amount
	confirmed uint64
}

// LedgerChain is an account chain ready to be written to a store.
type LedgerChain struct {
	Account      primitives.Account
	Blocks       []*primitives.Block
	Info         primitives.AccountInfo
	Confirmation primitives.ConfirmationHeightInfo
}

func Chain() *chain {
	return &chain{
		account:  AccountFromSeed(atomic.AddUint64(&accountSeq, 1) + 1<<32),
		balances: []primitives.Amount{primitives.NewAmount(1)},
	}
}

func (c *chain) WithAccount(account primitives.Account) *chain {
	c.account = account
	return c
}

// WithBlocks sets the chain length; every block keeps the current balance.
func (c *chain) WithBlocks(count int) *chain {
	balance := c.balances[len(c.balances)-1]
	c.balances = make([]primitives.Amount, count)
	for i := range c.balances {
		c.balances[i] = balance
	}
	return c
}

func (c *chain) WithBalance(balance primitives.Amount) *chain {
	for i := range c.balances {
		c.balances[i] = balance
	}
	return c
}

// WithBalances sets one balance per block, also defining the chain length.
func (c *chain) WithBalances(balances ...primitives.Amount) *chain {
	c.balances = balances
	return c
}

func (c *chain) WithConfirmedHeight(height uint64) *chain {
	c.confirmed = height
	return c
}

func (c *chain) Build() *LedgerChain {
	lc := &LedgerChain{Account: c.account}

	var previous primitives.Hash
	for i, balance := range c.balances {
		height := uint64(i + 1)
		b := &primitives.Block{
			Hash:     BlockHash(c.account, height),
			Account:  c.account,
			Previous: previous,
			Balance:  balance,
			Height:   height,
		}
		lc.Blocks = append(lc.Blocks, b)
		previous = b.Hash
	}

	lc.Info = primitives.AccountInfo{
		Head:       previous,
		OpenBlock:  lc.Blocks[0].Hash,
		Balance:    c.balances[len(c.balances)-1],
		BlockCount: uint64(len(c.balances)),
	}
	if c.confirmed > 0 {
		lc.Confirmation = primitives.ConfirmationHeightInfo{Height: c.confirmed, Frontier: lc.Blocks[c.confirmed-1].Hash}
	}

	return lc
}

func (lc *LedgerChain) Head() *primitives.Block {
	return lc.Blocks[len(lc.Blocks)-1]
}

// FirstUnconfirmed is the block scheduling is expected to pick for this chain, nil if fully confirmed.
func (lc *LedgerChain) FirstUnconfirmed() *primitives.Block {
	if lc.Confirmation.Height >= uint64(len(lc.Blocks)) {
		return nil
	}
	return lc.Blocks[lc.Confirmation.Height]
}

func (lc *LedgerChain) WriteTo(batch ledger.Batch) error {
	for _, b := range lc.Blocks {
		if err := batch.PutBlock(b); err != nil {
			return err
		}
	}
	if err := batch.PutAccount(lc.Account, lc.Info); err != nil {
		return err
	}
	return batch.PutConfirmationHeight(lc.Account, lc.Confirmation)
}

// WriteChains stores every chain in one update.
func WriteChains(store ledger.WritableStore, chains ...*LedgerChain) error {
	return store.Update(func(batch ledger.Batch) error {
		for _, c := range chains {
			if err := c.WriteTo(batch); err != nil {
				return err
			}
		}
		return nil
	})
}

// Chains builds count single-block unconfirmed chains with distinct accounts.
func Chains(count int) []*LedgerChain {
	chains := make([]*LedgerChain, count)
	for i := range chains {
		chains[i] = Chain().Build()
	}
	return chains
}

func WriteWeight(store ledger.WritableStore, representative primitives.Account, weight primitives.Amount) error {
	return store.Update(func(batch ledger.Batch) error {
		return batch.PutWeight(representative, weight)
	})
}

// OpenBlock builds the first block of a fresh account without storing it.
func OpenBlock() *primitives.Block {
	return Chain().Build().Blocks[0]
}

// Fork returns a block competing with block for the same chain position.
func Fork(block *primitives.Block, seed uint64) *primitives.Block {
	buf := make([]byte, 0, primitives.HashSize+8)
	buf = append(buf, block.Hash[:]...)
	buf = binary.BigEndian.AppendUint64(buf, seed)
	fork := *block
	fork.Hash = primitives.Hash(blake2b.Sum256(buf))
	return &fork
}
