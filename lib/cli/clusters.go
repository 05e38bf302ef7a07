// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/azure-databricks/databricks-client-go/lib/cmd"
	"github.com/azure-databricks/databricks-client-go/sdk/go/databricks"
	"github.com/dustin/go-humanize"
)

var Clusters = cmd.Multi{
	"list":           clustersList{},
	"get":            clustersGet{},
	"node-types":     clustersNodeTypes{},
	"spark-versions": clustersSparkVersions{},
	"events":         clustersEvents{},
}

type clustersList struct{}

func (clustersList) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		list, err := client.ClusterList(ctx)
		if err != nil {
			return err
		}
		return cf.output(stdout, list, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "CLUSTER\tNAME\tSTATE\tRUNTIME")
			for _, ci := range list.Clusters {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ci.ClusterID, ci.ClusterName, ci.State, ci.RuntimeVersion)
			}
			return tw.Flush()
		})
	})
}

type clustersGet struct{}

func (clustersGet) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "cluster-id", stderr); !ok {
		return code
	} else if flags.NArg() != 1 {
		return usage(stderr, prog, "cluster-id")
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		ci, err := client.ClusterGet(ctx, databricks.ClusterIDOptions{ClusterID: flags.Arg(0)})
		if err != nil {
			return err
		}
		return cf.output(stdout, ci, nil)
	})
}

type clustersNodeTypes struct{}

func (clustersNodeTypes) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		list, err := client.ClusterListNodeTypes(ctx)
		if err != nil {
			return err
		}
		return cf.output(stdout, list, func(w io.Writer) error {
			sort.Slice(list.NodeTypes, func(i, j int) bool {
				return list.NodeTypes[i].NodeTypeID < list.NodeTypes[j].NodeTypeID
			})
			tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "NODE TYPE\tCORES\tMEMORY\tCATEGORY")
			for _, nt := range list.NodeTypes {
				if nt.IsDeprecated {
					continue
				}
				fmt.Fprintf(tw, "%s\t%g\t%s\t%s\n", nt.NodeTypeID, nt.NumCores, humanize.IBytes(uint64(nt.MemoryMb)<<20), nt.Category)
			}
			return tw.Flush()
		})
	})
}

type clustersSparkVersions struct{}

func (clustersSparkVersions) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		list, err := client.ClusterListSparkVersions(ctx)
		if err != nil {
			return err
		}
		return cf.output(stdout, list, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
			for _, v := range list.Versions {
				fmt.Fprintf(tw, "%s\t%s\n", v.Key, v.Name)
			}
			return tw.Flush()
		})
	})
}

type clustersEvents struct{}

func (clustersEvents) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	maxEvents := flags.Int64("max", 500, "maximum number of events to retrieve (0 = no limit)")
	pageSize := flags.Int64("page-size", 50, "number of events to retrieve per API call")
	if ok, code := cmd.ParseFlags(flags, prog, args, "cluster-id", stderr); !ok {
		return code
	} else if flags.NArg() != 1 {
		return usage(stderr, prog, "cluster-id")
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		events, err := clusterEvents(ctx, client, flags.Arg(0), *pageSize, *maxEvents)
		if err != nil {
			return err
		}
		return cf.output(stdout, events, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tTYPE")
			for _, ev := range events {
				fmt.Fprintf(tw, "%s\t%s\n", ev.Timestamp, ev.Type)
			}
			return tw.Flush()
		})
	})
}

// clusterEvents follows next_page links until there are no more
// events or maxEvents events have been retrieved.
func clusterEvents(ctx context.Context, client *databricks.Client, clusterID string, pageSize, maxEvents int64) ([]databricks.ClusterEvent, error) {
	events := []databricks.ClusterEvent{}
	opts := databricks.ClusterEventsOptions{ClusterID: clusterID, Limit: pageSize}
	for {
		if maxEvents > 0 && int64(len(events))+opts.Limit > maxEvents {
			opts.Limit = maxEvents - int64(len(events))
		}
		resp, err := client.ClusterEvents(ctx, opts)
		if err != nil {
			return nil, err
		}
		events = append(events, resp.Events...)
		if !resp.HasNextPage() || len(resp.Events) == 0 || (maxEvents > 0 && int64(len(events)) >= maxEvents) {
			return events, nil
		}
		opts = *resp.NextPage
	}
}
