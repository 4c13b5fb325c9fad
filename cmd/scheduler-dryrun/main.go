// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"fmt"
	"github.com/orbs-network/orbs-election-scheduler/config"
	"github.com/orbs-network/orbs-election-scheduler/instrumentation"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"os"
	"time"
)

var (
	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "ledger directory; an empty value keeps the ledger in memory",
	}
	engineFlag = &cli.StringFlag{
		Name:  "engine",
		Value: "leveldb",
		Usage: "ledger engine (leveldb|bbolt|memory)",
	}
	seedFlag = &cli.IntFlag{
		Name:  "seed",
		Value: 0,
		Usage: "number of synthetic accounts written to the ledger before starting",
	}
	durationFlag = &cli.DurationFlag{
		Name:  "duration",
		Value: 5 * time.Second,
		Usage: "how long the scheduling pipeline runs before the report is printed",
	}
	configFlag = &cli.StringSliceFlag{
		Name:  "config",
		Usage: "path/to/config.json, may be repeated",
	}
	activateFlag = &cli.StringSliceFlag{
		Name:  "activate",
		Usage: "hex account offered to the schedulers after start, may be repeated",
	}
	voteFlag = &cli.StringSliceFlag{
		Name:  "vote",
		Usage: "<representative-hex>:<block-hash-hex> vote injected after start, may be repeated",
	}
	logFlag = &cli.StringFlag{
		Name:  "log",
		Usage: "path/to/dryrun.log",
	}
	silentFlag = &cli.BoolFlag{
		Name:  "silent",
		Usage: "disable log output to stdout",
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "scheduler-dryrun",
		Usage: "run election scheduling against a ledger with recording elections",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "schedule elections for every unconfirmed account of the ledger and print the result",
				Action: runAction,
				Flags:  []cli.Flag{dbFlag, engineFlag, seedFlag, durationFlag, configFlag, activateFlag, voteFlag, logFlag, silentFlag},
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(ctx *cli.Context) error {
					_, err := fmt.Fprintln(ctx.App.Writer, config.GetVersion())
					return err
				},
			},
		},
	}
}

func main() {
	logger := instrumentation.GetBootstrapCrashLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected error in main goroutine", log.Error(errors.Errorf("unknown error: %v", r)))
			os.Exit(2)
		}
	}()

	if err := newApp().Run(os.Args); err != nil {
		logger.Error("dry run failed", log.Error(err))
		os.Exit(1)
	}
}
