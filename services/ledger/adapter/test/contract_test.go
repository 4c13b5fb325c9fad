// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger/adapter/bbolt"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger/adapter/leveldb"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger/adapter/memory"
	"github.com/orbs-network/orbs-election-scheduler/test/builders"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func withEachAdapter(t *testing.T, testFunc func(t *testing.T, store ledger.WritableStore)) {
	t.Run("In-Memory Store", func(t *testing.T) {
		store := memory.NewStore()
		defer store.Close()
		testFunc(t, store)
	})

	t.Run("LevelDB Store", func(t *testing.T) {
		store, err := leveldb.OpenInMemory()
		require.NoError(t, err)
		defer store.Close()
		testFunc(t, store)
	})

	t.Run("BBolt Store", func(t *testing.T) {
		dir, err := ioutil.TempDir("", "ledger-bbolt")
		require.NoError(t, err)
		defer os.RemoveAll(dir)

		store, err := bbolt.Open(filepath.Join(dir, "ledger.db"))
		require.NoError(t, err)
		defer store.Close()
		testFunc(t, store)
	})
}

func read(t *testing.T, store ledger.Store, f func(txn ledger.ReadTransaction)) {
	txn, err := store.BeginRead()
	require.NoError(t, err)
	defer txn.Release()
	f(txn)
}

func TestLedgerContract_MissingRecordsAreNotFoundWithoutError(t *testing.T) {
	withEachAdapter(t, func(t *testing.T, store ledger.WritableStore) {
		read(t, store, func(txn ledger.ReadTransaction) {
			_, found, err := txn.Account(builders.AccountFromSeed(1))
			require.NoError(t, err)
			require.False(t, found)

			_, found, err = txn.Block(primitives.Hash{1})
			require.NoError(t, err)
			require.False(t, found)

			_, found, err = txn.Successor(primitives.Hash{1})
			require.NoError(t, err)
			require.False(t, found)

			conf, err := txn.ConfirmationHeight(builders.AccountFromSeed(1))
			require.NoError(t, err)
			require.Zero(t, conf.Height)

			weight, err := txn.Weight(builders.AccountFromSeed(1))
			require.NoError(t, err)
			require.True(t, weight.IsZero())
		})
	})
}

func TestLedgerContract_WritesChainAndRetrieves(t *testing.T) {
	withEachAdapter(t, func(t *testing.T, store ledger.WritableStore) {
		chain := builders.Chain().
			WithBalances(primitives.NewAmount(10), primitives.NewAmount(7), primitives.NewAmount(3)).
			WithConfirmedHeight(1).
			Build()
		require.NoError(t, builders.WriteChains(store, chain))

		read(t, store, func(txn ledger.ReadTransaction) {
			info, found, err := txn.Account(chain.Account)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, chain.Info, info)

			conf, err := txn.ConfirmationHeight(chain.Account)
			require.NoError(t, err)
			require.Equal(t, chain.Confirmation, conf)

			for _, expected := range chain.Blocks {
				b, found, err := txn.Block(expected.Hash)
				require.NoError(t, err)
				require.True(t, found)
				require.Equal(t, expected, b)
			}

			successor, found, err := txn.Successor(chain.Blocks[0].Hash)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, chain.Blocks[1].Hash, successor)
		})
	})
}

func TestLedgerContract_WeightRoundTrip(t *testing.T) {
	withEachAdapter(t, func(t *testing.T, store ledger.WritableStore) {
		rep := builders.Representative(7)
		weight, err := primitives.AmountFromDecimal("340282366920938463463374607431768211455")
		require.NoError(t, err)
		require.NoError(t, builders.WriteWeight(store, rep, weight))

		read(t, store, func(txn ledger.ReadTransaction) {
			w, err := txn.Weight(rep)
			require.NoError(t, err)
			require.Equal(t, weight, w)
		})
	})
}

func TestLedgerContract_ForEachAccountVisitsInOrderAcrossChunks(t *testing.T) {
	withEachAdapter(t, func(t *testing.T, store ledger.WritableStore) {
		chains := builders.Chains(10)
		require.NoError(t, builders.WriteChains(store, chains...))

		var visited []primitives.Account
		var from primitives.Account
		chunks := 0
		for {
			var more bool
			read(t, store, func(txn ledger.ReadTransaction) {
				var err error
				from, more, err = txn.ForEachAccount(from, 3, func(account primitives.Account, info primitives.AccountInfo) error {
					visited = append(visited, account)
					return nil
				})
				require.NoError(t, err)
			})
			chunks++
			if !more {
				break
			}
		}

		require.Len(t, visited, 10, "every account should be visited exactly once")
		require.Equal(t, 4, chunks, "10 accounts in chunks of 3")
		for i := 1; i < len(visited); i++ {
			require.True(t, string(visited[i-1][:]) < string(visited[i][:]), "accounts should be visited in ascending order")
		}
	})
}

func TestLedgerContract_ReadTransactionIsASnapshot(t *testing.T) {
	withEachAdapter(t, func(t *testing.T, store ledger.WritableStore) {
		first := builders.Chain().Build()
		require.NoError(t, builders.WriteChains(store, first))

		txn, err := store.BeginRead()
		require.NoError(t, err)

		second := builders.Chain().Build()
		require.NoError(t, builders.WriteChains(store, second))

		_, found, err := txn.Account(second.Account)
		require.NoError(t, err)
		require.False(t, found, "writes after the transaction began should not be visible")
		txn.Release()

		read(t, store, func(txn ledger.ReadTransaction) {
			_, found, err := txn.Account(second.Account)
			require.NoError(t, err)
			require.True(t, found)
		})
	})
}
