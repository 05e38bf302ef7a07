// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"flag"
	"fmt"
	"net/url"
	"strings"

	"github.com/azure-databricks/databricks-client-go/sdk/go/databricks"
)

// ParseLibrary parses a command line library argument.
//
// The argument is either a JSON library descriptor like
// {"pypi":{"package":"requests"}} or kind=value, where kind is one of
// jar, egg, whl, maven, pypi, or cran. For maven, pypi, and cran, the
// value may end with "@repo" to use a repository other than the
// default:
//
//	jar=dbfs:/libs/x.jar
//	maven=org.jsoup:jsoup:1.7.2
//	pypi=requests==2.31.0@https://pypi.example.com/simple
//	cran=dplyr
//
// The repo must be an http or https URL. Any other "@" is part of the
// package, so pypi=pkg@git+https://host/repo.git is a package with no
// repo. A PEP 508 direct reference to an https URL looks like a repo,
// and Maven exclusions have no kind=value syntax: use the JSON form
// for those.
func ParseLibrary(arg string) (databricks.Library, error) {
	if strings.HasPrefix(strings.TrimSpace(arg), "{") {
		lib, err := databricks.DecodeLibrary([]byte(arg))
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", arg, err)
		}
		return lib, nil
	}
	kind, value, ok := strings.Cut(arg, "=")
	if !ok || value == "" {
		return nil, fmt.Errorf("library %q: expected kind=value, like jar=dbfs:/x.jar", arg)
	}
	switch kind {
	case "jar":
		return databricks.JarLibrary{Jar: value}, nil
	case "egg":
		return databricks.EggLibrary{Egg: value}, nil
	case "whl":
		return databricks.WheelLibrary{Wheel: value}, nil
	}
	pkg, repo := splitRepo(value)
	switch kind {
	case "maven":
		return databricks.MavenLibrary{Maven: databricks.MavenLibrarySpec{Coordinates: pkg, Repo: repo}}, nil
	case "pypi":
		return databricks.PythonPyPiLibrary{PyPi: databricks.PythonPyPiLibrarySpec{Package: pkg, Repo: repo}}, nil
	case "cran":
		return databricks.RCranLibrary{Cran: databricks.RCranLibrarySpec{Package: pkg, Repo: repo}}, nil
	}
	return nil, fmt.Errorf("library %q: unknown kind %q: %w", arg, kind, databricks.ErrUnrecognizedLibraryKind)
}

// splitRepo splits value at the first "@" that is followed by an http
// or https URL.
func splitRepo(value string) (pkg, repo string) {
	for i := strings.Index(value, "@"); i >= 0; {
		u, err := url.Parse(value[i+1:])
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			return value[:i], value[i+1:]
		}
		j := strings.Index(value[i+1:], "@")
		if j < 0 {
			break
		}
		i += j + 1
	}
	return value, ""
}

func parseLibraries(args []string) (databricks.Libraries, error) {
	var libs databricks.Libraries
	for _, arg := range args {
		lib, err := ParseLibrary(arg)
		if err != nil {
			return nil, err
		}
		if lib == nil {
			return nil, fmt.Errorf("library %s: null library", arg)
		}
		libs = append(libs, lib)
	}
	return libs, nil
}

var (
	_ flag.Value = (*libraryFlag)(nil)
	_ flag.Value = keyValueFlag{}
)

// libraryFlag is a repeatable flag.Value that collects libraries.
type libraryFlag struct {
	libs databricks.Libraries
}

func (lf *libraryFlag) String() string {
	var s []string
	for _, lib := range lf.libs {
		s = append(s, fmt.Sprint(lib))
	}
	return strings.Join(s, " ")
}

func (lf *libraryFlag) Set(arg string) error {
	libs, err := parseLibraries([]string{arg})
	if err != nil {
		return err
	}
	lf.libs = append(lf.libs, libs...)
	return nil
}

// keyValueFlag is a repeatable key=value flag.Value.
type keyValueFlag map[string]string

func (kv keyValueFlag) String() string {
	var s []string
	for k, v := range kv {
		s = append(s, k+"="+v)
	}
	return strings.Join(s, " ")
}

func (kv keyValueFlag) Set(arg string) error {
	k, v, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("%q: expected key=value", arg)
	}
	kv[k] = v
	return nil
}
