// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package databricks is a client for the Azure Databricks REST API
// (version 2.0).
//
// A Client sends requests to one workspace. Each API operation is a
// Client method taking a context and an options struct, named after
// the API group and operation, e.g., ClusterGet, LibrariesInstall,
// DbfsRead:
//
//	client := databricks.NewClientFromEnv()
//	status, err := client.LibrariesClusterStatus(ctx, databricks.ClusterIDOptions{ClusterID: id})
//
// Cluster libraries are represented by the Library interface, which
// is implemented by JarLibrary, EggLibrary, WheelLibrary,
// MavenLibrary, PythonPyPiLibrary, and RCranLibrary. Use
// DecodeLibrary and EncodeLibrary to convert between Library values
// and their JSON wire format.
//
// API errors are returned as TransactionError values, which carry the
// HTTP status and the error_code and message fields of the response.
package databricks
