// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package cmdtest provides tools for testing command line tools.
package cmdtest

import (
	"bytes"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	check "gopkg.in/check.v1"
)

// LeakCheck tests for output leaked to os.Stdout, os.Stderr, or the
// logrus standard logger, that should have been sent to the stdout
// and stderr streams passed to a cmd.Handler.
//
// It redirects all three to temporary buffers, and returns a func,
// which the caller is expected to defer, that restores them and checks
// that nothing was written.
//
// Example:
//
//	func (s *Suite) TestSomething(c *check.C) {
//		defer cmdtest.LeakCheck(c)()
//		// ... run a command that shouldn't print to os.Stdout
//	}
func LeakCheck(c *check.C) func() {
	tmpfiles := map[string]*os.File{"stdout": nil, "stderr": nil}
	for name := range tmpfiles {
		f, err := os.CreateTemp(c.MkDir(), name)
		c.Assert(err, check.IsNil)
		tmpfiles[name] = f
	}
	var logbuf bytes.Buffer
	rootLogger := logrus.StandardLogger()
	logOut := rootLogger.Out

	stdout, stderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = tmpfiles["stdout"], tmpfiles["stderr"]
	rootLogger.SetOutput(&logbuf)
	return func() {
		os.Stdout, os.Stderr = stdout, stderr
		rootLogger.SetOutput(logOut)

		for name, f := range tmpfiles {
			_, err := f.Seek(0, io.SeekStart)
			c.Assert(err, check.IsNil)
			leaked, err := io.ReadAll(f)
			c.Assert(err, check.IsNil)
			f.Close()
			c.Check(string(leaked), check.Equals, "", check.Commentf("leaked to %s", name))
		}
		c.Check(logbuf.String(), check.Equals, "", check.Commentf("leaked to logrus standard logger"))
	}
}
