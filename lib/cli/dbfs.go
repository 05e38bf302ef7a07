// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/azure-databricks/databricks-client-go/lib/cmd"
	"github.com/azure-databricks/databricks-client-go/sdk/go/ctxlog"
	"github.com/azure-databricks/databricks-client-go/sdk/go/databricks"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
)

var Dbfs = cmd.Multi{
	"ls":  dbfsLs{},
	"put": dbfsPut{},
	"get": dbfsGet{},
}

// dbfsPath accepts "dbfs:/foo" as well as "/foo".
func dbfsPath(s string) string {
	return "/" + strings.TrimLeft(strings.TrimPrefix(s, "dbfs:"), "/")
}

type dbfsLs struct{}

func (dbfsLs) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	long := flags.Bool("l", false, "long listing, with sizes and modification times (text format)")
	if ok, code := cmd.ParseFlags(flags, prog, args, "path", stderr); !ok {
		return code
	} else if flags.NArg() != 1 {
		return usage(stderr, prog, "path")
	}
	if *long {
		cf.Format = "text"
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		list, err := client.DbfsList(ctx, databricks.DbfsPathOptions{Path: dbfsPath(flags.Arg(0))})
		if err != nil {
			return err
		}
		return cf.output(stdout, list, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', tabwriter.AlignRight)
			for _, fi := range list.Files {
				name := fi.Path
				if fi.IsDir {
					name += "/"
				}
				if !*long {
					fmt.Fprintln(w, name)
					continue
				}
				fmt.Fprintf(tw, "%s\t %s\t %s\n", humanize.IBytes(uint64(fi.FileSize)), fi.ModificationTime.Time().Format("2006-01-02 15:04"), name)
			}
			return tw.Flush()
		})
	})
}

type dbfsPut struct{}

func (dbfsPut) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	overwrite := flags.Bool("overwrite", false, "replace existing files")
	glob := flags.String("glob", "", "upload the files in local-dir matching this `pattern`, like **/*.jar, to dbfs-dir")
	if ok, code := cmd.ParseFlags(flags, prog, args, "{local-file|-} dbfs-path | --glob=pattern local-dir dbfs-dir", stderr); !ok {
		return code
	} else if flags.NArg() != 2 {
		return usage(stderr, prog, "{local-file|-} dbfs-path | --glob=pattern local-dir dbfs-dir")
	}
	src, dst := flags.Arg(0), dbfsPath(flags.Arg(1))
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		logger := ctxlog.FromContext(ctx)
		if *glob == "" {
			n, err := putFile(ctx, client, src, stdin, dst, *overwrite)
			if err != nil {
				return err
			}
			logger.Infof("uploaded %s to %s", humanize.IBytes(uint64(n)), dst)
			return nil
		}
		matches, err := doublestar.Glob(os.DirFS(src), *glob, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("glob %q: %w", *glob, err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files in %s match %q", src, *glob)
		}
		var total int64
		for _, match := range matches {
			target := path.Join(dst, match)
			n, err := putFile(ctx, client, filepath.Join(src, filepath.FromSlash(match)), nil, target, *overwrite)
			if err != nil {
				return err
			}
			logger.Debugf("uploaded %s to %s", humanize.IBytes(uint64(n)), target)
			total += n
		}
		logger.Infof("uploaded %s files (%s) to %s", humanize.Comma(int64(len(matches))), humanize.IBytes(uint64(total)), dst)
		return nil
	})
}

func putFile(ctx context.Context, client *databricks.Client, src string, stdin io.Reader, dst string, overwrite bool) (int64, error) {
	var r io.Reader
	if src == "-" {
		r = stdin
	} else {
		f, err := os.Open(src)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		r = f
	}
	n, err := client.DbfsUpload(ctx, dst, overwrite, r)
	if err != nil {
		return n, fmt.Errorf("%s: %w", dst, err)
	}
	return n, nil
}

type dbfsGet struct{}

func (dbfsGet) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, cf := newFlagSet(prog, stdin, stderr)
	if ok, code := cmd.ParseFlags(flags, prog, args, "dbfs-path [local-file|-]", stderr); !ok {
		return code
	} else if flags.NArg() < 1 || flags.NArg() > 2 {
		return usage(stderr, prog, "dbfs-path [local-file|-]")
	}
	src, dst := dbfsPath(flags.Arg(0)), "-"
	if flags.NArg() == 2 {
		dst = flags.Arg(1)
	}
	return cf.run(stderr, func(ctx context.Context, client *databricks.Client) error {
		n, err := getFile(ctx, client, src, dst, stdout)
		if err != nil {
			return err
		}
		ctxlog.FromContext(ctx).Debugf("downloaded %s from %s", humanize.IBytes(uint64(n)), src)
		return nil
	})
}

func getFile(ctx context.Context, client *databricks.Client, src, dst string, stdout io.Writer) (int64, error) {
	if dst == "-" {
		n, err := client.DbfsDownload(ctx, src, stdout)
		if err != nil {
			return n, fmt.Errorf("%s: %w", src, err)
		}
		return n, nil
	}
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return 0, err
	}
	n, err := client.DbfsDownload(ctx, src, f)
	if err != nil {
		f.Close()
		return n, fmt.Errorf("%s: %w", src, err)
	}
	return n, f.Close()
}
