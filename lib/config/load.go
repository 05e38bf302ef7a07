// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Package config loads client profiles from a YAML file.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"dario.cat/mergo"
	"github.com/azure-databricks/databricks-client-go/sdk/go/databricks"
	"github.com/ghodss/yaml"
	"github.com/sirupsen/logrus"
)

type logger interface {
	Warnf(string, ...interface{})
}

var knownProfileKeys = map[string]bool{
	"Host":     true,
	"Token":    true,
	"Insecure": true,
	"Timeout":  true,
}

// Load reads a client config from rdr. Each profile starts out with
// the values in DefaultYAML. Unrecognized keys are reported to log,
// if not nil, and otherwise ignored.
func Load(rdr io.Reader, log logger) (*databricks.Config, error) {
	buf, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}

	// Load the config into a generic map to get the profile
	// names and check for unknown keys; then load defaults for
	// each profile; then load the real config and fill in the
	// values it leaves empty from the defaults.
	var generic map[string]interface{}
	err = yaml.Unmarshal(buf, &generic)
	if err != nil {
		return nil, err
	}
	profiles, _ := generic["Profiles"].(map[string]interface{})
	if len(profiles) == 0 {
		return nil, errors.New("config does not define any profiles")
	}
	if log != nil {
		checkUnknownKeys(generic, profiles, log)
	}

	var defaults, cfg databricks.Config
	for name := range profiles {
		err = yaml.Unmarshal(bytes.Replace(DefaultYAML, []byte("xxxxx"), []byte(name), -1), &defaults)
		if err != nil {
			return nil, fmt.Errorf("loading defaults for %s: %s", name, err)
		}
	}
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return nil, err
	}
	for name, p := range cfg.Profiles {
		err = mergo.Merge(&p, defaults.Profiles[name])
		if err != nil {
			return nil, fmt.Errorf("applying defaults for %s: %s", name, err)
		}
		p.Name = name
		cfg.Profiles[name] = p
	}
	return &cfg, nil
}

// LoadFile reads a client config from the given file. If path is
// "-", the config is read from stdin.
func LoadFile(path string, stdin io.Reader, log logger) (*databricks.Config, error) {
	if path == "-" {
		return Load(stdin, log)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, log)
}

func checkUnknownKeys(generic, profiles map[string]interface{}, log logger) {
	for _, k := range sortedKeys(generic) {
		if k != "Profiles" {
			log.Warnf("deprecated or unknown config entry: %s", k)
		}
	}
	for _, name := range sortedKeys(profiles) {
		p, _ := profiles[name].(map[string]interface{})
		for _, k := range sortedKeys(p) {
			if !knownProfileKeys[k] {
				log.Warnf("deprecated or unknown config entry: Profiles.%s.%s", name, k)
			}
		}
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// A Loader finds the config file and profile given on the command
// line (or in the environment) and builds a client from them.
type Loader struct {
	Stdin  io.Reader
	Logger logrus.FieldLogger

	// Config file path, or "-" for stdin. Empty means
	// databricks.DefaultConfigFile().
	Path string

	// Profile name. Empty means the only profile, or the one named
	// DEFAULT.
	Profile string
}

// NewLoader returns a new Loader with Stdin and Logger set to the
// given values, and Path set to the default config file.
func NewLoader(stdin io.Reader, logger logrus.FieldLogger) *Loader {
	return &Loader{
		Stdin:  stdin,
		Logger: logger,
		Path:   databricks.DefaultConfigFile(),
	}
}

// SetupFlags sets up the -config and -profile flags.
func (ldr *Loader) SetupFlags(flagset *flag.FlagSet) {
	flagset.StringVar(&ldr.Path, "config", ldr.Path, "client configuration `file`, or - for stdin")
	flagset.StringVar(&ldr.Profile, "profile", ldr.Profile, "configuration `profile` to use")
}

// Load reads the config file.
func (ldr *Loader) Load() (*databricks.Config, error) {
	path := ldr.Path
	if path == "" {
		path = databricks.DefaultConfigFile()
	}
	return LoadFile(path, ldr.Stdin, ldr.Logger)
}

// NewClient returns a client for the selected profile.
//
// If the config file does not exist, no profile was requested, and
// DATABRICKS_HOST is set, the client is configured from the
// DATABRICKS_* environment variables instead.
func (ldr *Loader) NewClient() (*databricks.Client, error) {
	cfg, err := ldr.Load()
	if errors.Is(err, os.ErrNotExist) && ldr.Profile == "" && os.Getenv("DATABRICKS_HOST") != "" {
		ldr.Logger.Debugf("%s, using DATABRICKS_* environment variables", err)
		client := databricks.NewClientFromEnv()
		client.Logger = ldr.Logger
		return client, nil
	} else if err != nil {
		return nil, err
	}
	profile, err := cfg.GetProfile(ldr.Profile)
	if err != nil {
		return nil, err
	}
	client, err := databricks.NewClientFromProfile(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile.Name, err)
	}
	client.Logger = ldr.Logger.WithField("Profile", profile.Name)
	return client, nil
}
