// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"fmt"
	"github.com/orbs-network/orbs-election-scheduler/bootstrap"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections"
	"github.com/orbs-network/orbs-election-scheduler/services/activeelections/testkit"
	"io"
	"text/tabwriter"
)

func printReport(out io.Writer, node *bootstrap.Node, factory *testkit.Factory) error {
	registry := node.Elections.Registry()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "elections created\t%d\n", len(factory.Created()))
	fmt.Fprintf(w, "elections active\t%d\n", registry.Size())
	fmt.Fprintf(w, "recently confirmed\t%d\n", node.Elections.RecentlyConfirmed().Size())
	fmt.Fprintf(w, "backlog passes\t%d\n", node.Backlog.Passes())
	fmt.Fprintf(w, "hinting entries\t%d\n", node.Hinting.Size())
	fmt.Fprintf(w, "optimistic candidates\t%d\n", node.Optimistic.Size())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "behavior\tactive\tlimit")
	for _, behavior := range activeelections.Behaviors {
		fmt.Fprintf(w, "%s\t%d\t%d\n", behavior, registry.SizeBehavior(behavior), node.Elections.Limit(behavior))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "tier\tqueued\tactive\ttop root\ttop priority")
	for _, bucket := range node.Priority.Buckets() {
		tier := bucket.Tier()
		active := registry.SizeTier(activeelections.BehaviorPriority, tier)
		if bucket.Size() == 0 && active == 0 {
			continue
		}
		if election, priority, found := registry.Top(activeelections.BehaviorPriority, tier); found {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%d\n", tier, bucket.Size(), active, election.QualifiedRoot(), priority)
		} else {
			fmt.Fprintf(w, "%d\t%d\t%d\t-\t-\n", tier, bucket.Size(), active)
		}
	}

	return w.Flush()
}
