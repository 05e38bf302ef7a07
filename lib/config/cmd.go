// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/azure-databricks/databricks-client-go/lib/cmd"
	"github.com/azure-databricks/databricks-client-go/sdk/go/ctxlog"
	"github.com/ghodss/yaml"
)

// DumpCommand prints the loaded config, with defaults filled in and
// tokens redacted.
var DumpCommand dumpCommand

type dumpCommand struct{}

func (dumpCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()

	loader := NewLoader(stdin, ctxlog.New(stderr, "text", "info"))
	flags := flag.NewFlagSet(prog, flag.ContinueOnError)
	loader.SetupFlags(flags)
	showTokens := flags.Bool("show-tokens", false, "print tokens instead of redacting them")
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	}
	cfg, err := loader.Load()
	if err != nil {
		return 1
	}
	if !*showTokens {
		for name, p := range cfg.Profiles {
			if p.Token != "" {
				p.Token = "xxxxx"
			}
			cfg.Profiles[name] = p
		}
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return 1
	}
	_, err = stdout.Write(out)
	if err != nil {
		return 1
	}
	return 0
}

// CheckCommand loads the config file and exits non-zero if it has
// errors or unknown keys, or if the selected profile has no host.
var CheckCommand checkCommand

type checkCommand struct{}

func (checkCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()

	flags := flag.NewFlagSet(prog, flag.ContinueOnError)
	loader := NewLoader(stdin, nil)
	loader.SetupFlags(flags)
	if ok, code := cmd.ParseFlags(flags, prog, args, "", stderr); !ok {
		return code
	}
	log := &plainLogger{w: stderr}
	cfg, err := LoadFile(loader.Path, stdin, log)
	if err != nil {
		return 1
	}
	profile, err := cfg.GetProfile(loader.Profile)
	if err != nil {
		return 1
	}
	if profile.Host == "" {
		err = fmt.Errorf("profile %s: Host is empty", profile.Name)
		return 1
	}
	if log.used {
		return 1
	}
	return 0
}

type plainLogger struct {
	w    io.Writer
	used bool
}

func (pl *plainLogger) Warnf(format string, args ...interface{}) {
	pl.used = true
	fmt.Fprintf(pl.w, format+"\n", args...)
}

// DumpDefaultsCommand prints DefaultYAML.
var DumpDefaultsCommand defaultsCommand

type defaultsCommand struct{}

func (defaultsCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	_, err := stdout.Write(DefaultYAML)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
