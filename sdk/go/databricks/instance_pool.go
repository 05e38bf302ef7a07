// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import "context"

type AzureDiskVolumeType string

const (
	AzureDiskVolumeTypePremiumLRS  = AzureDiskVolumeType("PREMIUM_LRS")
	AzureDiskVolumeTypeStandardLRS = AzureDiskVolumeType("STANDARD_LRS")
)

type DiskType struct {
	AzureDiskVolumeType AzureDiskVolumeType `json:"azure_disk_volume_type,omitempty"`
}

type DiskSpec struct {
	DiskType  *DiskType `json:"disk_type,omitempty"`
	DiskCount int32     `json:"disk_count,omitempty"`
	// GiB
	DiskSize int32 `json:"disk_size,omitempty"`
}

type InstancePoolState string

const (
	InstancePoolStateActive  = InstancePoolState("ACTIVE")
	InstancePoolStateDeleted = InstancePoolState("DELETED")
)

type InstancePoolAttributes struct {
	InstancePoolID                     string            `json:"instance_pool_id,omitempty"`
	InstancePoolName                   string            `json:"instance_pool_name"`
	MinIdleInstances                   int32             `json:"min_idle_instances,omitempty"`
	MaxCapacity                        *int32            `json:"max_capacity,omitempty"`
	NodeTypeID                         string            `json:"node_type_id"`
	CustomTags                         map[string]string `json:"custom_tags,omitempty"`
	IdleInstanceAutoTerminationMinutes int32             `json:"idle_instance_autotermination_minutes,omitempty"`
	EnableElasticDisk                  bool              `json:"enable_elastic_disk,omitempty"`
	DiskSpec                           *DiskSpec         `json:"disk_spec,omitempty"`
	PreloadedSparkVersions             []string          `json:"preloaded_spark_versions,omitempty"`
	AzureAttributes                    *AzureAttributes  `json:"azure_attributes,omitempty"`
}

type InstancePoolStats struct {
	UsedCount        int32 `json:"used_count"`
	IdleCount        int32 `json:"idle_count"`
	PendingUsedCount int32 `json:"pending_used_count"`
	PendingIdleCount int32 `json:"pending_idle_count"`
}

type InstancePoolInfo struct {
	InstancePoolAttributes
	DefaultTags map[string]string  `json:"default_tags,omitempty"`
	State       InstancePoolState  `json:"state"`
	Stats       *InstancePoolStats `json:"stats,omitempty"`
}

type InstancePoolList struct {
	InstancePools []InstancePoolInfo `json:"instance_pools"`
}

type InstancePoolIDOptions struct {
	InstancePoolID string `json:"instance_pool_id"`
}

func (c *Client) InstancePoolCreate(ctx context.Context, attrs InstancePoolAttributes) (InstancePoolIDOptions, error) {
	var resp InstancePoolIDOptions
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointInstancePoolCreate.Method, EndpointInstancePoolCreate.Path, attrs)
	return resp, err
}

// InstancePoolEdit changes the name, sizing, and idle timeout of an
// existing pool. The node type can't be changed.
func (c *Client) InstancePoolEdit(ctx context.Context, attrs InstancePoolAttributes) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointInstancePoolEdit.Method, EndpointInstancePoolEdit.Path, attrs)
}

func (c *Client) InstancePoolGet(ctx context.Context, options InstancePoolIDOptions) (InstancePoolInfo, error) {
	var resp InstancePoolInfo
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointInstancePoolGet.Method, EndpointInstancePoolGet.Path, options)
	return resp, err
}

func (c *Client) InstancePoolList(ctx context.Context) (InstancePoolList, error) {
	var resp InstancePoolList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointInstancePoolList.Method, EndpointInstancePoolList.Path, nil)
	return resp, err
}

func (c *Client) InstancePoolDelete(ctx context.Context, options InstancePoolIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointInstancePoolDelete.Method, EndpointInstancePoolDelete.Path, options)
}
