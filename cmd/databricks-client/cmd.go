// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/azure-databricks/databricks-client-go/lib/cli"
	"github.com/azure-databricks/databricks-client-go/lib/cmd"
	"github.com/azure-databricks/databricks-client-go/lib/config"
)

var (
	handler = cmd.Multi(map[string]cmd.Handler{
		"version":   cmd.Version,
		"-version":  cmd.Version,
		"--version": cmd.Version,

		"clusters":  cli.Clusters,
		"dbfs":      cli.Dbfs,
		"jobs":      cli.Jobs,
		"libraries": cli.Libraries,
		"workspace": cli.Workspace,

		"config-check":    config.CheckCommand,
		"config-defaults": config.DumpDefaultsCommand,
		"config-dump":     config.DumpCommand,
	})
)

// fixGlobalArgs moves the command and subcommand names in front of
// any global flags, so "databricks-client -f yaml dbfs ls /" works
// like "databricks-client dbfs ls -f yaml /".
func fixGlobalArgs(args []string) []string {
	args = cmd.SubcommandToFront(args, cli.GlobalFlagSet())
	if len(args) > 1 {
		if _, nested := handler[args[0]].(cmd.Multi); nested {
			args = append(args[:1:1], cmd.SubcommandToFront(args[1:], cli.GlobalFlagSet())...)
		}
	}
	return args
}

func main() {
	os.Exit(handler.RunCommand(os.Args[0], fixGlobalArgs(os.Args[1:]), os.Stdin, os.Stdout, os.Stderr))
}
