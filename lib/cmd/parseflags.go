// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"flag"
	"fmt"
	"io"
)

// ParseFlags calls f.Parse(args) and reports usage errors and -help
// output on stderr.
//
// positional describes the accepted positional arguments for the
// usage message, "Usage: {prog} [options] {positional}". If
// positional is "", any positional argument is an error.
//
// If the caller should exit now, ok is false and exitCode is 0 (after
// -help) or 2 (after a usage error).
func ParseFlags(f FlagSet, prog string, args []string, positional string, stderr io.Writer) (ok bool, exitCode int) {
	f.Init(prog, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	err := f.Parse(args)
	switch err {
	case nil:
		if f.NArg() > 0 && positional == "" {
			fmt.Fprintf(stderr, "unrecognized command line arguments: %v (try -help)\n", f.Args())
			return false, 2
		}
		return true, 0
	case flag.ErrHelp:
		fmt.Fprintf(stderr, "Usage: %s [options] %s\n", prog, positional)
		f.SetOutput(stderr)
		f.PrintDefaults()
		return false, 0
	default:
		fmt.Fprintf(stderr, "error parsing command line arguments: %s (try -help)\n", err)
		return false, 2
	}
}
