// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultProfileName is the profile used when a config file has more
// than one profile and none is requested by name.
const DefaultProfileName = "DEFAULT"

// DefaultConfigFile returns the path of the client config file:
// $DATABRICKS_CONFIG_FILE if set, otherwise
// $HOME/.databricks/client.yml.
func DefaultConfigFile() string {
	if f := os.Getenv("DATABRICKS_CONFIG_FILE"); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".databricks/client.yml"
	}
	return filepath.Join(home, ".databricks", "client.yml")
}

// Config is the client config file: a set of named connection
// profiles.
type Config struct {
	Profiles map[string]Profile
}

// Profile is a workspace URL and the credentials to use with it.
type Profile struct {
	Name     string `json:"-"`
	Host     string
	Token    string
	Insecure bool
	Timeout  Duration
}

// GetProfile returns the named profile, or the only/default profile
// if name is "".
func (cfg *Config) GetProfile(name string) (*Profile, error) {
	if name == "" {
		if len(cfg.Profiles) == 0 {
			return nil, fmt.Errorf("no profiles configured")
		} else if p, ok := cfg.Profiles[DefaultProfileName]; ok {
			p.Name = DefaultProfileName
			return &p, nil
		} else if len(cfg.Profiles) > 1 {
			return nil, fmt.Errorf("multiple profiles configured and none is named %s, cannot choose", DefaultProfileName)
		} else {
			for name, p := range cfg.Profiles {
				p.Name = name
				return &p, nil
			}
		}
	}
	if p, ok := cfg.Profiles[name]; !ok {
		return nil, fmt.Errorf("profile %q is not configured", name)
	} else {
		p.Name = name
		return &p, nil
	}
}
