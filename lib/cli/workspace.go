// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/azure-databricks/databricks-client-go/lib/cmd"
	"github.com/azure-databricks/databricks-client-go/sdk/go/databricks"
)

var Workspace = cmd.Multi{
	"ls":     workspaceLs{},
	"export": workspaceExport{},
}

type workspaceLs struct{}

func (workspaceLs) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "path", stderr); !ok {
		return code
	} else if flags.NArg() != 1 {
		return usage(stderr, prog, "path")
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		list, err := client.WorkspaceList(ctx, databricks.WorkspacePathOptions{Path: flags.Arg(0)})
		if err != nil {
			return err
		}
		return cf.output(stdout, list, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
			for _, obj := range list.Objects {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", obj.ObjectType, obj.Language, obj.Path)
			}
			return tw.Flush()
		})
	})
}

type workspaceExport struct{}

func (workspaceExport) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	exportFormat := flags.String("export-format", string(databricks.ExportFormatSource), "export `format`: SOURCE, HTML, JUPYTER, or DBC")
	outfile := flags.String("o", "-", "write to `file` instead of stdout")
	if ok, code := cmd.ParseFlags(flags, prog, args, "path", stderr); !ok {
		return code
	} else if flags.NArg() != 1 {
		return usage(stderr, prog, "path")
	}
	format := databricks.ExportFormat(strings.ToUpper(*exportFormat))
	switch format {
	case databricks.ExportFormatSource, databricks.ExportFormatHTML, databricks.ExportFormatJupyter, databricks.ExportFormatDBC:
	default:
		fmt.Fprintf(stderr, "unsupported export format %q\n", *exportFormat)
		return 2
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		content, err := client.WorkspaceExport(ctx, databricks.WorkspaceExportOptions{Path: flags.Arg(0), Format: format})
		if err != nil {
			return err
		}
		if *outfile == "-" {
			_, err = stdout.Write(content)
			return err
		}
		return os.WriteFile(*outfile, content, 0666)
	})
}
