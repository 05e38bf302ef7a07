// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/azure-databricks/databricks-client-go/lib/cmd"
	"github.com/azure-databricks/databricks-client-go/sdk/go/ctxlog"
	"github.com/azure-databricks/databricks-client-go/sdk/go/databricks"
	"rsc.io/getopt"
)

var Jobs = cmd.Multi{
	"list":    jobsList{},
	"get":     jobsGet{},
	"run-now": jobsRunNow{},
	"submit":  jobsSubmit{},
}

type jobsList struct{}

func (jobsList) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		var jobs []databricks.Job
		opts := databricks.JobListOptions{Limit: 25}
		for {
			page, err := client.JobList(ctx, opts)
			if err != nil {
				return err
			}
			jobs = append(jobs, page.Jobs...)
			if !page.HasMore || len(page.Jobs) == 0 {
				break
			}
			opts.Offset += int32(len(page.Jobs))
		}
		return cf.output(stdout, databricks.JobList{Jobs: jobs}, nil)
	})
}

type jobsGet struct{}

func (jobsGet) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "job-id", stderr); !ok {
		return code
	} else if flags.NArg() != 1 {
		return usage(stderr, prog, "job-id")
	}
	jobID, err := strconv.ParseInt(flags.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(stderr, "invalid job ID %q\n", flags.Arg(0))
		return 2
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		job, err := client.JobGet(ctx, databricks.JobIDOptions{JobID: jobID})
		if err != nil {
			return err
		}
		return cf.output(stdout, job, nil)
	})
}

// waitFlags are the flags for commands that start a run.
type waitFlags struct {
	wait     bool
	interval time.Duration
}

func (wf *waitFlags) setup(flags *getopt.FlagSet) {
	flags.BoolVar(&wf.wait, "wait", false, "wait for the run to finish, and exit non-zero if it fails")
	flags.DurationVar(&wf.interval, "interval", 10*time.Second, "time to wait between status checks")
}

// finish prints the run identifier, or (with -wait) the finished
// run.
func (wf *waitFlags) finish(ctx context.Context, cf *commonFlags, client *databricks.Client, stdout io.Writer, id databricks.RunIdentifier) error {
	if !wf.wait {
		return cf.output(stdout, id, nil)
	}
	run, err := waitForRun(ctx, client, id.RunID, wf.interval)
	if run != nil {
		if oerr := cf.output(stdout, run, nil); oerr != nil {
			return oerr
		}
	}
	return err
}

type jobsRunNow struct{}

func (jobsRunNow) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	var wf waitFlags
	wf.setup(flags)
	notebookParams := keyValueFlag{}
	flags.Var(notebookParams, "param", "notebook parameter `key=value` (can be repeated)")
	sparkSubmit := flags.String("spark-submit", "", "spark-submit `args` for this run, overriding the job's")
	if ok, code := cmd.ParseFlags(flags, prog, args, "job-id", stderr); !ok {
		return code
	} else if flags.NArg() != 1 {
		return usage(stderr, prog, "job-id")
	}
	jobID, err := strconv.ParseInt(flags.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(stderr, "invalid job ID %q\n", flags.Arg(0))
		return 2
	}
	opts := databricks.JobRunNowOptions{JobID: jobID}
	if len(notebookParams) > 0 {
		opts.NotebookParams = notebookParams
	}
	if *sparkSubmit != "" {
		opts.SparkSubmitParams, err = databricks.ParseSparkSubmitParameters(*sparkSubmit)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		token, err := databricks.NewIdempotencyToken()
		if err != nil {
			return err
		}
		opts.IdempotencyToken = token
		id, err := client.JobRunNow(ctx, opts)
		if err != nil {
			return err
		}
		return wf.finish(ctx, cf, client, stdout, id)
	})
}

type jobsSubmit struct{}

func (jobsSubmit) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	var wf waitFlags
	wf.setup(flags)
	name := flags.String("name", "databricks-client run", "run `name`")
	clusterID := flags.String("cluster", "", "run on the existing cluster with this `ID`")
	sparkSubmit := flags.String("spark-submit", "", "run spark-submit with these `args`")
	notebook := flags.String("notebook", "", "run the notebook at this workspace `path`")
	notebookParams := keyValueFlag{}
	flags.Var(notebookParams, "param", "notebook parameter `key=value` (can be repeated)")
	var libs libraryFlag
	flags.Var(&libs, "library", "install `kind=value` on the cluster first (can be repeated)")
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	}
	settings, err := submitSettings(*name, *sparkSubmit, *notebook, notebookParams)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if *clusterID == "" {
		fmt.Fprintln(stderr, "--cluster is required")
		return 2
	}
	settings.WithExistingCluster(*clusterID).WithLibraries(libs.libs...)
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		token, err := databricks.NewIdempotencyToken()
		if err != nil {
			return err
		}
		id, err := client.JobRunsSubmit(ctx, databricks.JobRunsSubmitOptions{JobSettings: *settings, IdempotencyToken: token})
		if err != nil {
			return err
		}
		return wf.finish(ctx, cf, client, stdout, id)
	})
}

func submitSettings(name, sparkSubmit, notebook string, params map[string]string) (*databricks.JobSettings, error) {
	switch {
	case sparkSubmit != "" && notebook != "":
		return nil, errors.New("--spark-submit and --notebook cannot be used together")
	case sparkSubmit != "":
		return databricks.NewSparkSubmitJobSettings(name, sparkSubmit)
	case notebook != "":
		if len(params) == 0 {
			params = nil
		}
		return databricks.NewNotebookJobSettings(name, notebook, params), nil
	default:
		return nil, errors.New("one of --spark-submit or --notebook is required")
	}
}

var errRunFailed = errors.New("run did not succeed")

// waitForRun polls the given run until its life cycle state is
// terminal. If the run does not end in SUCCESS, the run is returned
// with a non-nil error.
func waitForRun(ctx context.Context, client *databricks.Client, runID int64, interval time.Duration) (*databricks.Run, error) {
	logger := ctxlog.FromContext(ctx).WithField("RunID", runID)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		run, err := client.JobRunsGet(ctx, databricks.RunIDOptions{RunID: runID})
		if err != nil {
			return nil, err
		}
		if run.State.LifeCycleState.Terminal() {
			if run.State.ResultState != databricks.RunResultStateSuccess {
				return &run, fmt.Errorf("%w: %s %s: %s", errRunFailed, run.State.LifeCycleState, run.State.ResultState, run.State.StateMessage)
			}
			return &run, nil
		}
		logger.Debugf("life cycle state %s", run.State.LifeCycleState)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
