// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"encoding/json"
)

// LibraryInstallStatus is the status of a library on a cluster.
type LibraryInstallStatus string

const (
	LibraryStatusPending            = LibraryInstallStatus("PENDING")
	LibraryStatusResolving          = LibraryInstallStatus("RESOLVING")
	LibraryStatusInstalling         = LibraryInstallStatus("INSTALLING")
	LibraryStatusInstalled          = LibraryInstallStatus("INSTALLED")
	LibraryStatusSkipped            = LibraryInstallStatus("SKIPPED")
	LibraryStatusFailed             = LibraryInstallStatus("FAILED")
	LibraryStatusUninstallOnRestart = LibraryInstallStatus("UNINSTALL_ON_RESTART")
)

// Terminal reports whether the status will not change without
// another install/uninstall request or a cluster restart.
func (s LibraryInstallStatus) Terminal() bool {
	switch s {
	case LibraryStatusInstalled, LibraryStatusSkipped, LibraryStatusFailed, LibraryStatusUninstallOnRestart:
		return true
	default:
		return false
	}
}

// LibraryFullStatus is the status of one library on one cluster.
type LibraryFullStatus struct {
	Library                 Library              `json:"library"`
	Status                  LibraryInstallStatus `json:"status"`
	Messages                []string             `json:"messages,omitempty"`
	IsLibraryForAllClusters bool                 `json:"is_library_for_all_clusters,omitempty"`
}

// libraryFullStatusJSON has the same wire format as
// LibraryFullStatus, with the library left undecoded.
type libraryFullStatusJSON struct {
	Library                 json.RawMessage      `json:"library"`
	Status                  LibraryInstallStatus `json:"status"`
	Messages                []string             `json:"messages,omitempty"`
	IsLibraryForAllClusters bool                 `json:"is_library_for_all_clusters,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s LibraryFullStatus) MarshalJSON() ([]byte, error) {
	lib, err := EncodeLibrary(s.Library)
	if err != nil {
		return nil, err
	}
	return json.Marshal(libraryFullStatusJSON{
		Library:                 lib,
		Status:                  s.Status,
		Messages:                s.Messages,
		IsLibraryForAllClusters: s.IsLibraryForAllClusters,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *LibraryFullStatus) UnmarshalJSON(data []byte) error {
	var tmp libraryFullStatusJSON
	err := json.Unmarshal(data, &tmp)
	if err != nil {
		return err
	}
	var lib Library
	if len(tmp.Library) > 0 {
		lib, err = DecodeLibrary(tmp.Library)
		if err != nil {
			return err
		}
	}
	*s = LibraryFullStatus{
		Library:                 lib,
		Status:                  tmp.Status,
		Messages:                tmp.Messages,
		IsLibraryForAllClusters: tmp.IsLibraryForAllClusters,
	}
	return nil
}

// ClusterLibraryStatuses is the status of every library on a
// cluster.
type ClusterLibraryStatuses struct {
	ClusterID       string              `json:"cluster_id"`
	LibraryStatuses []LibraryFullStatus `json:"library_statuses"`
}

type AllClusterLibraryStatuses struct {
	Statuses []ClusterLibraryStatuses `json:"statuses"`
}

type LibrariesOptions struct {
	ClusterID string    `json:"cluster_id"`
	Libraries Libraries `json:"libraries"`
}

// FindLibraryStatus returns the entry in statuses whose library is
// equal to lib.
func FindLibraryStatus(statuses []LibraryFullStatus, lib Library) (LibraryFullStatus, bool) {
	for _, s := range statuses {
		if LibraryEqual(s.Library, lib) {
			return s, true
		}
	}
	return LibraryFullStatus{}, false
}

// LibrariesAllClusterStatuses returns the status of all libraries on
// all clusters, including libraries set to be installed on all
// clusters.
func (c *Client) LibrariesAllClusterStatuses(ctx context.Context) (AllClusterLibraryStatuses, error) {
	var resp AllClusterLibraryStatuses
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointLibrariesAllClusterStatuses.Method, EndpointLibrariesAllClusterStatuses.Path, nil)
	return resp, err
}

func (c *Client) LibrariesClusterStatus(ctx context.Context, options ClusterIDOptions) (ClusterLibraryStatuses, error) {
	var resp ClusterLibraryStatuses
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointLibrariesClusterStatus.Method, EndpointLibrariesClusterStatus.Path, options)
	return resp, err
}

// LibrariesInstall queues libraries for installation on a cluster.
// Installation is asynchronous: use LibrariesClusterStatus to check
// progress.
func (c *Client) LibrariesInstall(ctx context.Context, options LibrariesOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointLibrariesInstall.Method, EndpointLibrariesInstall.Path, options)
}

// LibrariesUninstall marks libraries to be uninstalled when the
// cluster restarts.
func (c *Client) LibrariesUninstall(ctx context.Context, options LibrariesOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointLibrariesUninstall.Method, EndpointLibrariesUninstall.Path, options)
}
