// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-election-scheduler/bootstrap"
	"github.com/orbs-network/orbs-election-scheduler/config"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/logfields"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation/metric"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections/testkit"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger/adapter/bbolt"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger/adapter/leveldb"
	"github.com/orbs-network/orbs-election-scheduler/services/ledger/adapter/memory"
	"github.com/orbs-network/orbs-election-scheduler/synchronization"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"strings"
	"time"
)

const shutdownTimeout = 5 * time.Second

func runAction(c *cli.Context) error {
	cfg, err := config.GetNodeConfigFromFiles(config.FilesPaths(c.StringSlice(configFlag.Name)))
	if err != nil {
		return errors.Wrap(err, "error reading configuration")
	}
	config.Validate(cfg)

	logger := instrumentation.GetLogger(c.String(logFlag.Name), c.Bool(silentFlag.Name), cfg)

	store, err := openStore(c.String(engineFlag.Name), c.String(dbFlag.Name))
	if err != nil {
		return err
	}
	defer store.Close()

	if accounts := c.Int(seedFlag.Name); accounts > 0 {
		if err := seedLedger(store, accounts); err != nil {
			return errors.Wrap(err, "failed seeding ledger")
		}
		logger.Info("ledger seeded", log.Int("accounts", accounts))
	}

	factory := testkit.NewFactory()
	node := bootstrap.NewNode(context.Background(), cfg, store, factory, logger, metric.NewRegistry())
	synchronization.NewShutdownListener(logger, node, shutdownTimeout).ListenToOSShutdownSignal()
	node.Backlog.Trigger()

	if err := inject(node, c.StringSlice(activateFlag.Name), c.StringSlice(voteFlag.Name)); err != nil {
		synchronization.ShutdownGracefully(node, shutdownTimeout)
		return err
	}

	select {
	case <-time.After(c.Duration(durationFlag.Name)):
	case <-node.Stopped():
	}

	if err := printReport(c.App.Writer, node, factory); err != nil {
		return err
	}
	return shutdown(node, logger)
}

func inject(node *bootstrap.Node, accounts []string, votes []string) error {
	for _, s := range accounts {
		account, err := primitives.AccountFromHex(s)
		if err != nil {
			return errors.Wrap(err, "bad --activate value")
		}
		if err := node.ActivateAccount(account); err != nil {
			return err
		}
	}

	for _, s := range votes {
		vote, err := parseVote(s)
		if err != nil {
			return err
		}
		node.Vote(vote)
	}
	return nil
}

func parseVote(s string) (*primitives.Vote, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return nil, errors.Errorf("bad --vote value %q, expected <representative>:<hash>", s)
	}
	representative, err := primitives.AccountFromHex(parts[0])
	if err != nil {
		return nil, errors.Wrap(err, "bad --vote representative")
	}
	hash, err := primitives.HashFromHex(parts[1])
	if err != nil {
		return nil, errors.Wrap(err, "bad --vote hash")
	}
	return &primitives.Vote{Representative: representative, Timestamp: uint64(time.Now().UnixNano()), Hashes: []primitives.Hash{hash}}, nil
}

func shutdown(node *bootstrap.Node, logger log.Logger) error {
	done := make(chan struct{})
	govnr.Once(logfields.GovnrErrorer(logger), func() {
		synchronization.ShutdownGracefully(node, shutdownTimeout)
		close(done)
	})

	select {
	case <-done:
		return nil
	case <-time.After(shutdownTimeout + time.Second):
		instrumentation.DebugPrintGoroutineStacks(logger) // help find the worker that did not stop
		return errors.New("node did not shut down in time")
	}
}

func openStore(engine string, path string) (ledger.WritableStore, error) {
	switch engine {
	case "memory":
		return memory.NewStore(), nil
	case "leveldb":
		if path == "" {
			return leveldb.OpenInMemory()
		}
		return leveldb.Open(path)
	case "bbolt":
		if path == "" {
			return nil, errors.New("bbolt engine requires --db")
		}
		return bbolt.Open(path)
	default:
		return nil, errors.Errorf("unknown ledger engine %q", engine)
	}
}
