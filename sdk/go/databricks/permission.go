// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"fmt"
	"strings"
)

// PermissionObjectType is the first path component of a permissions
// API request.
type PermissionObjectType string

const (
	PermissionObjectClusters         = PermissionObjectType("clusters")
	PermissionObjectInstancePools    = PermissionObjectType("instance-pools")
	PermissionObjectJobs             = PermissionObjectType("jobs")
	PermissionObjectPipelines        = PermissionObjectType("pipelines")
	PermissionObjectNotebooks        = PermissionObjectType("notebooks")
	PermissionObjectDirectories      = PermissionObjectType("directories")
	PermissionObjectExperiments      = PermissionObjectType("experiments")
	PermissionObjectRegisteredModels = PermissionObjectType("registered-models")
	PermissionObjectSQLWarehouses    = PermissionObjectType("sql/warehouses")
	PermissionObjectRepos            = PermissionObjectType("repos")

	// Token permissions apply to the whole workspace, so requests
	// for this type have no object ID.
	PermissionObjectTokens = PermissionObjectType("authorization/tokens")
)

type PermissionLevel string

const (
	PermissionLevelCanManage        = PermissionLevel("CAN_MANAGE")
	PermissionLevelCanRestart       = PermissionLevel("CAN_RESTART")
	PermissionLevelCanAttachTo      = PermissionLevel("CAN_ATTACH_TO")
	PermissionLevelIsOwner          = PermissionLevel("IS_OWNER")
	PermissionLevelCanManageRun     = PermissionLevel("CAN_MANAGE_RUN")
	PermissionLevelCanView          = PermissionLevel("CAN_VIEW")
	PermissionLevelCanRead          = PermissionLevel("CAN_READ")
	PermissionLevelCanRun           = PermissionLevel("CAN_RUN")
	PermissionLevelCanEdit          = PermissionLevel("CAN_EDIT")
	PermissionLevelCanUse           = PermissionLevel("CAN_USE")
	PermissionLevelCanManageStaging = PermissionLevel("CAN_MANAGE_STAGING_VERSIONS")
	PermissionLevelCanManageProd    = PermissionLevel("CAN_MANAGE_PRODUCTION_VERSIONS")
)

// PermissionObject identifies the object whose permissions are read
// or changed. ObjectID is empty for PermissionObjectTokens.
type PermissionObject struct {
	ObjectType PermissionObjectType
	ObjectID   string
}

func (o PermissionObject) path(ep APIEndpoint) (string, error) {
	if o.ObjectType == "" {
		return "", fmt.Errorf("permission object type not given")
	}
	if o.ObjectID == "" && o.ObjectType != PermissionObjectTokens {
		return "", fmt.Errorf("object ID not given for %s permissions", o.ObjectType)
	}
	p := strings.Replace(ep.Path, ":object_type", string(o.ObjectType), 1)
	p = strings.Replace(p, ":object_id", o.ObjectID, 1)
	p = strings.Replace(p, "//", "/", -1)
	return strings.TrimSuffix(p, "/"), nil
}

// AccessControlRequest grants a permission level to one principal.
// Set exactly one of UserName, GroupName, and ServicePrincipalName.
type AccessControlRequest struct {
	UserName             string          `json:"user_name,omitempty"`
	GroupName            string          `json:"group_name,omitempty"`
	ServicePrincipalName string          `json:"service_principal_name,omitempty"`
	PermissionLevel      PermissionLevel `json:"permission_level"`
}

type Permission struct {
	PermissionLevel     PermissionLevel `json:"permission_level"`
	Inherited           bool            `json:"inherited,omitempty"`
	InheritedFromObject []string        `json:"inherited_from_object,omitempty"`
}

type AccessControl struct {
	UserName             string       `json:"user_name,omitempty"`
	GroupName            string       `json:"group_name,omitempty"`
	ServicePrincipalName string       `json:"service_principal_name,omitempty"`
	AllPermissions       []Permission `json:"all_permissions"`
}

type AccessControlList struct {
	ObjectID          string          `json:"object_id"`
	ObjectType        string          `json:"object_type"`
	AccessControlList []AccessControl `json:"access_control_list"`
}

type PermissionLevelDescription struct {
	PermissionLevel PermissionLevel `json:"permission_level"`
	Description     string          `json:"description"`
}

type PermissionLevelList struct {
	PermissionLevels []PermissionLevelDescription `json:"permission_levels"`
}

type permissionsRequest struct {
	AccessControlList []AccessControlRequest `json:"access_control_list"`
}

// PermissionLevels returns the permission levels that can be granted
// on the given object.
func (c *Client) PermissionLevels(ctx context.Context, obj PermissionObject) (PermissionLevelList, error) {
	var resp PermissionLevelList
	path, err := obj.path(EndpointPermissionLevels)
	if err != nil {
		return resp, err
	}
	err = c.RequestAndDecodeContext(ctx, &resp, EndpointPermissionLevels.Method, path, nil)
	return resp, err
}

func (c *Client) PermissionsGet(ctx context.Context, obj PermissionObject) (AccessControlList, error) {
	var resp AccessControlList
	path, err := obj.path(EndpointPermissionsGet)
	if err != nil {
		return resp, err
	}
	err = c.RequestAndDecodeContext(ctx, &resp, EndpointPermissionsGet.Method, path, nil)
	return resp, err
}

// PermissionsUpdate adds the given grants to the object's existing
// permissions.
func (c *Client) PermissionsUpdate(ctx context.Context, obj PermissionObject, acl []AccessControlRequest) (AccessControlList, error) {
	var resp AccessControlList
	path, err := obj.path(EndpointPermissionsUpdate)
	if err != nil {
		return resp, err
	}
	err = c.RequestAndDecodeContext(ctx, &resp, EndpointPermissionsUpdate.Method, path, permissionsRequest{AccessControlList: acl})
	return resp, err
}

// PermissionsReplace replaces all direct (not inherited) permissions
// of the object with the given grants.
func (c *Client) PermissionsReplace(ctx context.Context, obj PermissionObject, acl []AccessControlRequest) (AccessControlList, error) {
	var resp AccessControlList
	path, err := obj.path(EndpointPermissionsReplace)
	if err != nil {
		return resp, err
	}
	if acl == nil {
		acl = []AccessControlRequest{}
	}
	err = c.RequestAndDecodeContext(ctx, &resp, EndpointPermissionsReplace.Method, path, permissionsRequest{AccessControlList: acl})
	return resp, err
}
