// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the databricks-client subcommands.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/azure-databricks/databricks-client-go/lib/cmd"
	"github.com/azure-databricks/databricks-client-go/lib/config"
	"github.com/azure-databricks/databricks-client-go/sdk/go/ctxlog"
	"github.com/azure-databricks/databricks-client-go/sdk/go/databricks"
	"github.com/ghodss/yaml"
	"github.com/sirupsen/logrus"
	"rsc.io/getopt"
)

// commonFlags are accepted by every subcommand that talks to a
// workspace.
type commonFlags struct {
	Format  string
	Verbose bool

	loader *config.Loader
	logger *logrus.Logger
}

// GlobalFlagSet returns a flag set with the flags that may appear
// before the subcommand name, like "databricks-client -f yaml dbfs ls
// /". It is meant for cmd.SubcommandToFront.
func GlobalFlagSet() cmd.FlagSet {
	flags, _ := newFlagSet("", nil, io.Discard)
	return flags
}

func newFlagSet(prog string, stdin io.Reader, stderr io.Writer) (*getopt.FlagSet, *commonFlags) {
	cf := &commonFlags{
		Format: "json",
		logger: ctxlog.New(stderr, "text", "info"),
	}
	cf.loader = config.NewLoader(stdin, cf.logger)
	flags := getopt.NewFlagSet(prog, flag.ContinueOnError)
	flags.StringVar(&cf.Format, "format", cf.Format, "output `format`: json, yaml, or text")
	flags.Alias("f", "format")
	flags.BoolVar(&cf.Verbose, "verbose", false, "log API requests on stderr")
	flags.Alias("v", "verbose")
	cf.loader.SetupFlags(flags.FlagSet)
	return flags, cf
}

// run sets up a client and calls fn, and returns an exit code. Errors
// returned by fn are printed on stderr.
func (cf *commonFlags) run(stderr io.Writer, fn func(context.Context, *databricks.Client) error) int {
	err := cf.checkFormat()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if cf.Verbose {
		cf.logger.SetLevel(logrus.DebugLevel)
	}
	client, err := cf.loader.NewClient()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	ctx := ctxlog.Context(context.Background(), cf.logger)
	err = fn(ctx, client)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func (cf *commonFlags) checkFormat() error {
	switch cf.Format {
	case "json", "yaml", "text":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (try json, yaml, or text)", cf.Format)
	}
}

// output writes v to stdout in the selected format. text renders the
// "text" format; if it is nil, text falls back to json.
func (cf *commonFlags) output(stdout io.Writer, v interface{}, text func(io.Writer) error) error {
	switch {
	case cf.Format == "yaml":
		buf, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding: %w", err)
		}
		_, err = stdout.Write(buf)
		return err
	case cf.Format == "text" && text != nil:
		return text(stdout)
	default:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encoding: %w", err)
		}
		return nil
	}
}

// usage prints a one-line usage message and returns exit code 2.
func usage(stderr io.Writer, prog, positional string) int {
	fmt.Fprintf(stderr, "Usage: %s [options] %s (try -help)\n", prog, positional)
	return 2
}
