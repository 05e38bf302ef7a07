// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package config

// DefaultYAML is loaded underneath each profile in a client config
// file. "xxxxx" is replaced by the profile name.
var DefaultYAML = []byte(`
Profiles:
  xxxxx:
    # Workspace URL, like "https://adb-1234567890123456.7.azuredatabricks.net",
    # or just the host part.
    Host: ""

    # Personal access token.
    Token: ""

    # Skip TLS certificate verification.
    Insecure: false

    # Maximum time to wait for a single API response.
    Timeout: 5m
`)
