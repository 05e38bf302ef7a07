// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"bytes"

	"github.com/azure-databricks/databricks-client-go/lib/cmdtest"
	check "gopkg.in/check.v1"
)

var _ = check.Suite(&CommandSuite{})

type CommandSuite struct{}

func (s *CommandSuite) TestBadArg(c *check.C) {
	var stderr bytes.Buffer
	code := DumpCommand.RunCommand("databricks-client config-dump", []string{"-badarg"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil), &stderr)
	c.Check(code, check.Equals, 2)
	c.Check(stderr.String(), check.Matches, `error parsing command line arguments: .*\n`)
}

func (s *CommandSuite) TestEmptyInput(c *check.C) {
	var stdout, stderr bytes.Buffer
	code := DumpCommand.RunCommand("databricks-client config-dump", []string{"-config=-"}, &bytes.Buffer{}, &stdout, &stderr)
	c.Check(code, check.Equals, 1)
	c.Check(stderr.String(), check.Equals, "config does not define any profiles\n")
}

func (s *CommandSuite) TestDump(c *check.C) {
	defer cmdtest.LeakCheck(c)()
	var stdout, stderr bytes.Buffer
	in := `
Profiles:
  DEFAULT:
    Host: adb-1.azuredatabricks.net
    Token: dapi0123
    UnknownKey: foobar
`
	code := DumpCommand.RunCommand("databricks-client config-dump", []string{"-config=-"}, bytes.NewBufferString(in), &stdout, &stderr)
	c.Check(code, check.Equals, 0)
	c.Check(stdout.String(), check.Matches, `(?ms)Profiles:\n  DEFAULT:\n.*`)
	c.Check(stdout.String(), check.Matches, `(?ms).*\n *Token: xxxxx\n.*`)
	c.Check(stdout.String(), check.Matches, `(?ms).*\n *Timeout: 5m0s\n.*`)
	c.Check(stdout.String(), check.Not(check.Matches), `(?ms).*UnknownKey.*`)
	c.Check(stderr.String(), check.Matches, `(?ms).*unknown config entry: Profiles.DEFAULT.UnknownKey.*`)

	stdout.Reset()
	code = DumpCommand.RunCommand("databricks-client config-dump", []string{"-config=-", "-show-tokens"}, bytes.NewBufferString(in), &stdout, &stderr)
	c.Check(code, check.Equals, 0)
	c.Check(stdout.String(), check.Matches, `(?ms).*\n *Token: dapi0123\n.*`)
}

func (s *CommandSuite) TestCheck(c *check.C) {
	var stdout, stderr bytes.Buffer
	code := CheckCommand.RunCommand("databricks-client config-check", []string{"-config=-"}, bytes.NewBufferString(`Profiles: {DEFAULT: {Host: x}}`), &stdout, &stderr)
	c.Check(code, check.Equals, 0)
	c.Check(stderr.String(), check.Equals, "")

	stderr.Reset()
	code = CheckCommand.RunCommand("databricks-client config-check", []string{"-config=-"}, bytes.NewBufferString(`Profiles: {DEFAULT: {Host: x, Hots: y}}`), &stdout, &stderr)
	c.Check(code, check.Equals, 1)
	c.Check(stderr.String(), check.Equals, "deprecated or unknown config entry: Profiles.DEFAULT.Hots\n")

	stderr.Reset()
	code = CheckCommand.RunCommand("databricks-client config-check", []string{"-config=-", "-profile=dev"}, bytes.NewBufferString(`Profiles: {DEFAULT: {Host: x}, dev: {Token: y}}`), &stdout, &stderr)
	c.Check(code, check.Equals, 1)
	c.Check(stderr.String(), check.Equals, "profile dev: Host is empty\n")
}

func (s *CommandSuite) TestDumpDefaults(c *check.C) {
	var stdout bytes.Buffer
	code := DumpDefaultsCommand.RunCommand("databricks-client config-defaults", nil, nil, &stdout, nil)
	c.Check(code, check.Equals, 0)
	c.Check(stdout.String(), check.Matches, `(?ms).*Timeout: 5m.*`)
}
