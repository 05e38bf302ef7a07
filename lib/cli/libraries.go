// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/azure-databricks/databricks-client-go/lib/cmd"
	"github.com/azure-databricks/databricks-client-go/sdk/go/ctxlog"
	"github.com/azure-databricks/databricks-client-go/sdk/go/databricks"
)

var Libraries = cmd.Multi{
	"status":    librariesStatus{},
	"install":   librariesChange{install: true},
	"uninstall": librariesChange{install: false},
	"wait":      librariesWait{},
}

type librariesStatus struct{}

func (librariesStatus) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "[cluster-id]", stderr); !ok {
		return code
	} else if flags.NArg() > 1 {
		return usage(stderr, prog, "[cluster-id]")
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		var statuses []databricks.ClusterLibraryStatuses
		var resp interface{}
		if flags.NArg() == 1 {
			st, err := client.LibrariesClusterStatus(ctx, databricks.ClusterIDOptions{ClusterID: flags.Arg(0)})
			if err != nil {
				return err
			}
			statuses, resp = []databricks.ClusterLibraryStatuses{st}, st
		} else {
			all, err := client.LibrariesAllClusterStatuses(ctx)
			if err != nil {
				return err
			}
			statuses, resp = all.Statuses, all
		}
		return cf.output(stdout, resp, func(w io.Writer) error {
			return writeLibraryStatuses(w, statuses)
		})
	})
}

func writeLibraryStatuses(w io.Writer, statuses []databricks.ClusterLibraryStatuses) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "CLUSTER\tLIBRARY\tSTATUS")
	for _, cs := range statuses {
		for _, st := range cs.LibraryStatuses {
			fmt.Fprintf(tw, "%s\t%v\t%s\n", cs.ClusterID, st.Library, st.Status)
		}
	}
	return tw.Flush()
}

type librariesChange struct {
	install bool
}

func (lc librariesChange) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "cluster-id kind=value...", stderr); !ok {
		return code
	} else if flags.NArg() < 2 {
		return usage(stderr, prog, "cluster-id kind=value...")
	}
	libs, err := parseLibraries(flags.Args()[1:])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		opts := databricks.LibrariesOptions{ClusterID: flags.Arg(0), Libraries: libs}
		if lc.install {
			return client.LibrariesInstall(ctx, opts)
		}
		return client.LibrariesUninstall(ctx, opts)
	})
}

type librariesWait struct{}

func (librariesWait) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	interval := flags.Duration("interval", 10*time.Second, "time to wait between status checks")
	timeout := flags.Duration("timeout", 30*time.Minute, "give up after this long")
	if ok, code := cmd.ParseFlags(flags, prog, args, "cluster-id kind=value...", stderr); !ok {
		return code
	} else if flags.NArg() < 2 {
		return usage(stderr, prog, "cluster-id kind=value...")
	}
	libs, err := parseLibraries(flags.Args()[1:])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		ctx, cancel := context.WithTimeout(ctx, *timeout)
		defer cancel()
		statuses, err := waitForLibraries(ctx, client, flags.Arg(0), libs, *interval)
		if err != nil && !errors.Is(err, errLibraryFailed) {
			return err
		}
		if oerr := cf.output(stdout, statuses, func(w io.Writer) error {
			return writeLibraryStatuses(w, []databricks.ClusterLibraryStatuses{{ClusterID: flags.Arg(0), LibraryStatuses: statuses}})
		}); oerr != nil {
			return oerr
		}
		return err
	})
}

var errLibraryFailed = errors.New("library installation failed")

// waitForLibraries polls the cluster's library statuses until every
// lib has a terminal status. If any of them ends up FAILED, the
// statuses are returned along with errLibraryFailed.
func waitForLibraries(ctx context.Context, client *databricks.Client, clusterID string, libs databricks.Libraries, interval time.Duration) ([]databricks.LibraryFullStatus, error) {
	logger := ctxlog.FromContext(ctx).WithField("ClusterID", clusterID)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		resp, err := client.LibrariesClusterStatus(ctx, databricks.ClusterIDOptions{ClusterID: clusterID})
		if err != nil {
			return nil, err
		}
		var found []databricks.LibraryFullStatus
		done, failed := true, false
		for _, lib := range libs {
			st, ok := databricks.FindLibraryStatus(resp.LibraryStatuses, lib)
			if !ok {
				return nil, fmt.Errorf("library %v is not installed on cluster %s", lib, clusterID)
			}
			found = append(found, st)
			if !st.Status.Terminal() {
				done = false
				logger.WithField("Library", fmt.Sprint(lib)).Debugf("status %s", st.Status)
			} else if st.Status == databricks.LibraryStatusFailed {
				failed = true
			}
		}
		if done && failed {
			return found, errLibraryFailed
		} else if done {
			return found, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for libraries: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
