// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

// ClusterSpec says where a job runs: on an existing cluster, or on a
// new cluster created for each run. Libraries are installed on that
// cluster before the run starts.
type ClusterSpec struct {
	// ID of an existing cluster to use for all runs. You may need
	// to restart it manually if it stops responding; new
	// clusters are more reliable.
	ExistingClusterID string `json:"existing_cluster_id,omitempty"`

	// A cluster to create for each run.
	NewCluster *ClusterAttributes `json:"new_cluster,omitempty"`

	// Libraries to install on the cluster that runs the job.
	Libraries Libraries `json:"libraries,omitempty"`
}
