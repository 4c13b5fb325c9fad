// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"github.com/orbs-network/orbs-election-scheduler/primitives"
)

// FirstUnconfirmed returns the lowest block of account above its confirmation height, along with the
// balance used to pick its tier: the larger of the block balance and the balance before it, so sends
// are ranked by what the account held.
func FirstUnconfirmed(txn ReadTransaction, account primitives.Account) (*primitives.Block, primitives.Amount, bool, error) {
	info, found, err := txn.Account(account)
	if err != nil || !found {
		return nil, primitives.Amount{}, false, err
	}
	conf, err := txn.ConfirmationHeight(account)
	if err != nil {
		return nil, primitives.Amount{}, false, err
	}
	return FirstUnconfirmedFrom(txn, info, conf)
}

// FirstUnconfirmedFrom is FirstUnconfirmed for callers that already hold the account records.
func FirstUnconfirmedFrom(txn ReadTransaction, info primitives.AccountInfo, conf primitives.ConfirmationHeightInfo) (*primitives.Block, primitives.Amount, bool, error) {
	if conf.Height >= info.BlockCount {
		return nil, primitives.Amount{}, false, nil
	}

	hash := info.OpenBlock
	if conf.Height > 0 {
		successor, found, err := txn.Successor(conf.Frontier)
		if err != nil || !found {
			return nil, primitives.Amount{}, false, err
		}
		hash = successor
	}

	block, found, err := txn.Block(hash)
	if err != nil || !found {
		return nil, primitives.Amount{}, false, err
	}

	balance := block.Balance
	if !block.IsOpen() {
		previous, found, err := txn.Block(block.Previous)
		if err != nil {
			return nil, primitives.Amount{}, false, err
		}
		if found {
			balance = primitives.MaxAmount(balance, previous.Balance)
		}
	}

	return block, balance, true, nil
}

func HeadBlock(txn ReadTransaction, account primitives.Account) (*primitives.Block, bool, error) {
	info, found, err := txn.Account(account)
	if err != nil || !found {
		return nil, false, err
	}
	return txn.Block(info.Head)
}

// IsConfirmed reports whether block lies at or below its account confirmation height.
func IsConfirmed(txn ReadTransaction, block *primitives.Block) (bool, error) {
	conf, err := txn.ConfirmationHeight(block.Account)
	if err != nil {
		return false, err
	}
	return block.Height != 0 && block.Height <= conf.Height, nil
}
