// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"io"
	"time"
)

type APIEndpoint struct {
	Method string
	// Relative to APIVersionPath. ":name" components are replaced
	// by the caller.
	Path string
}

var (
	EndpointClusterCreate               = APIEndpoint{"POST", "clusters/create"}
	EndpointClusterEdit                 = APIEndpoint{"POST", "clusters/edit"}
	EndpointClusterStart                = APIEndpoint{"POST", "clusters/start"}
	EndpointClusterRestart              = APIEndpoint{"POST", "clusters/restart"}
	EndpointClusterResize               = APIEndpoint{"POST", "clusters/resize"}
	EndpointClusterTerminate            = APIEndpoint{"POST", "clusters/delete"}
	EndpointClusterPermanentDelete      = APIEndpoint{"POST", "clusters/permanent-delete"}
	EndpointClusterGet                  = APIEndpoint{"GET", "clusters/get"}
	EndpointClusterList                 = APIEndpoint{"GET", "clusters/list"}
	EndpointClusterPin                  = APIEndpoint{"POST", "clusters/pin"}
	EndpointClusterUnpin                = APIEndpoint{"POST", "clusters/unpin"}
	EndpointClusterListNodeTypes        = APIEndpoint{"GET", "clusters/list-node-types"}
	EndpointClusterListSparkVersions    = APIEndpoint{"GET", "clusters/spark-versions"}
	EndpointClusterEvents               = APIEndpoint{"POST", "clusters/events"}
	EndpointLibrariesAllClusterStatuses = APIEndpoint{"GET", "libraries/all-cluster-statuses"}
	EndpointLibrariesClusterStatus      = APIEndpoint{"GET", "libraries/cluster-status"}
	EndpointLibrariesInstall            = APIEndpoint{"POST", "libraries/install"}
	EndpointLibrariesUninstall          = APIEndpoint{"POST", "libraries/uninstall"}
	EndpointJobCreate                   = APIEndpoint{"POST", "jobs/create"}
	EndpointJobList                     = APIEndpoint{"GET", "jobs/list"}
	EndpointJobDelete                   = APIEndpoint{"POST", "jobs/delete"}
	EndpointJobGet                      = APIEndpoint{"GET", "jobs/get"}
	EndpointJobReset                    = APIEndpoint{"POST", "jobs/reset"}
	EndpointJobUpdate                   = APIEndpoint{"POST", "jobs/update"}
	EndpointJobRunNow                   = APIEndpoint{"POST", "jobs/run-now"}
	EndpointJobRunsSubmit               = APIEndpoint{"POST", "jobs/runs/submit"}
	EndpointJobRunsList                 = APIEndpoint{"GET", "jobs/runs/list"}
	EndpointJobRunsGet                  = APIEndpoint{"GET", "jobs/runs/get"}
	EndpointJobRunsExport               = APIEndpoint{"GET", "jobs/runs/export"}
	EndpointJobRunsCancel               = APIEndpoint{"POST", "jobs/runs/cancel"}
	EndpointJobRunsDelete               = APIEndpoint{"POST", "jobs/runs/delete"}
	EndpointJobRunsGetOutput            = APIEndpoint{"GET", "jobs/runs/get-output"}
	EndpointWorkspaceMkdirs             = APIEndpoint{"POST", "workspace/mkdirs"}
	EndpointWorkspaceImport             = APIEndpoint{"POST", "workspace/import"}
	EndpointWorkspaceExport             = APIEndpoint{"GET", "workspace/export"}
	EndpointWorkspaceGetStatus          = APIEndpoint{"GET", "workspace/get-status"}
	EndpointWorkspaceList               = APIEndpoint{"GET", "workspace/list"}
	EndpointWorkspaceDelete             = APIEndpoint{"POST", "workspace/delete"}
	EndpointDbfsList                    = APIEndpoint{"GET", "dbfs/list"}
	EndpointDbfsGetStatus               = APIEndpoint{"GET", "dbfs/get-status"}
	EndpointDbfsMkdirs                  = APIEndpoint{"POST", "dbfs/mkdirs"}
	EndpointDbfsMove                    = APIEndpoint{"POST", "dbfs/move"}
	EndpointDbfsDelete                  = APIEndpoint{"POST", "dbfs/delete"}
	EndpointDbfsCreate                  = APIEndpoint{"POST", "dbfs/create"}
	EndpointDbfsAddBlock                = APIEndpoint{"POST", "dbfs/add-block"}
	EndpointDbfsClose                   = APIEndpoint{"POST", "dbfs/close"}
	EndpointDbfsRead                    = APIEndpoint{"GET", "dbfs/read"}
	EndpointSecretScopeCreate           = APIEndpoint{"POST", "secrets/scopes/create"}
	EndpointSecretScopeList             = APIEndpoint{"GET", "secrets/scopes/list"}
	EndpointSecretScopeDelete           = APIEndpoint{"POST", "secrets/scopes/delete"}
	EndpointSecretPut                   = APIEndpoint{"POST", "secrets/put"}
	EndpointSecretList                  = APIEndpoint{"GET", "secrets/list"}
	EndpointSecretDelete                = APIEndpoint{"POST", "secrets/delete"}
	EndpointSecretAclPut                = APIEndpoint{"POST", "secrets/acls/put"}
	EndpointSecretAclGet                = APIEndpoint{"GET", "secrets/acls/get"}
	EndpointSecretAclList               = APIEndpoint{"GET", "secrets/acls/list"}
	EndpointSecretAclDelete             = APIEndpoint{"POST", "secrets/acls/delete"}
	EndpointTokenCreate                 = APIEndpoint{"POST", "token/create"}
	EndpointTokenList                   = APIEndpoint{"GET", "token/list"}
	EndpointTokenRevoke                 = APIEndpoint{"POST", "token/delete"}
	EndpointGroupCreate                 = APIEndpoint{"POST", "groups/create"}
	EndpointGroupList                   = APIEndpoint{"GET", "groups/list"}
	EndpointGroupDelete                 = APIEndpoint{"POST", "groups/delete"}
	EndpointGroupAddMember              = APIEndpoint{"POST", "groups/add-member"}
	EndpointGroupRemoveMember           = APIEndpoint{"POST", "groups/remove-member"}
	EndpointGroupListMembers            = APIEndpoint{"GET", "groups/list-members"}
	EndpointGroupListParents            = APIEndpoint{"GET", "groups/list-parents"}
	EndpointInstancePoolCreate          = APIEndpoint{"POST", "instance-pools/create"}
	EndpointInstancePoolEdit            = APIEndpoint{"POST", "instance-pools/edit"}
	EndpointInstancePoolGet             = APIEndpoint{"GET", "instance-pools/get"}
	EndpointInstancePoolList            = APIEndpoint{"GET", "instance-pools/list"}
	EndpointInstancePoolDelete          = APIEndpoint{"POST", "instance-pools/delete"}
	EndpointPermissionLevels            = APIEndpoint{"GET", "permissions/:object_type/:object_id/permissionLevels"}
	EndpointPermissionsGet              = APIEndpoint{"GET", "permissions/:object_type/:object_id"}
	EndpointPermissionsUpdate           = APIEndpoint{"PATCH", "permissions/:object_type/:object_id"}
	EndpointPermissionsReplace          = APIEndpoint{"PUT", "permissions/:object_type/:object_id"}
)

// API is implemented by *Client. Tests and wrappers can use it to
// substitute a fake.
type API interface {
	ClusterCreate(ctx context.Context, attrs ClusterAttributes) (ClusterCreateResponse, error)
	ClusterEdit(ctx context.Context, attrs ClusterAttributes) error
	ClusterStart(ctx context.Context, options ClusterIDOptions) error
	ClusterRestart(ctx context.Context, options ClusterIDOptions) error
	ClusterResize(ctx context.Context, options ClusterResizeOptions) error
	ClusterTerminate(ctx context.Context, options ClusterIDOptions) error
	ClusterPermanentDelete(ctx context.Context, options ClusterIDOptions) error
	ClusterGet(ctx context.Context, options ClusterIDOptions) (ClusterInfo, error)
	ClusterList(ctx context.Context) (ClusterList, error)
	ClusterPin(ctx context.Context, options ClusterIDOptions) error
	ClusterUnpin(ctx context.Context, options ClusterIDOptions) error
	ClusterListNodeTypes(ctx context.Context) (NodeTypeList, error)
	ClusterListSparkVersions(ctx context.Context) (SparkVersionList, error)
	ClusterEvents(ctx context.Context, options ClusterEventsOptions) (ClusterEventsResponse, error)
	LibrariesAllClusterStatuses(ctx context.Context) (AllClusterLibraryStatuses, error)
	LibrariesClusterStatus(ctx context.Context, options ClusterIDOptions) (ClusterLibraryStatuses, error)
	LibrariesInstall(ctx context.Context, options LibrariesOptions) error
	LibrariesUninstall(ctx context.Context, options LibrariesOptions) error
	JobCreate(ctx context.Context, settings JobSettings) (JobCreateResponse, error)
	JobList(ctx context.Context, options JobListOptions) (JobList, error)
	JobDelete(ctx context.Context, options JobIDOptions) error
	JobGet(ctx context.Context, options JobIDOptions) (Job, error)
	JobReset(ctx context.Context, options JobResetOptions) error
	JobUpdate(ctx context.Context, options JobUpdateOptions) error
	JobRunNow(ctx context.Context, options JobRunNowOptions) (RunIdentifier, error)
	JobRunsSubmit(ctx context.Context, options JobRunsSubmitOptions) (RunIdentifier, error)
	JobRunsList(ctx context.Context, options JobRunsListOptions) (RunList, error)
	JobRunsGet(ctx context.Context, options RunIDOptions) (Run, error)
	JobRunsExport(ctx context.Context, options JobRunsExportOptions) (RunExport, error)
	JobRunsCancel(ctx context.Context, options RunIDOptions) error
	JobRunsDelete(ctx context.Context, options RunIDOptions) error
	JobRunsGetOutput(ctx context.Context, options RunIDOptions) (RunOutput, error)
	WorkspaceMkdirs(ctx context.Context, options WorkspacePathOptions) error
	WorkspaceImport(ctx context.Context, options WorkspaceImportOptions) error
	WorkspaceExport(ctx context.Context, options WorkspaceExportOptions) ([]byte, error)
	WorkspaceGetStatus(ctx context.Context, options WorkspacePathOptions) (ObjectInfo, error)
	WorkspaceList(ctx context.Context, options WorkspacePathOptions) (ObjectInfoList, error)
	WorkspaceDelete(ctx context.Context, options WorkspaceDeleteOptions) error
	DbfsList(ctx context.Context, options DbfsPathOptions) (FileList, error)
	DbfsGetStatus(ctx context.Context, options DbfsPathOptions) (FileInfo, error)
	DbfsMkdirs(ctx context.Context, options DbfsPathOptions) error
	DbfsMove(ctx context.Context, options DbfsMoveOptions) error
	DbfsDelete(ctx context.Context, options DbfsDeleteOptions) error
	DbfsCreate(ctx context.Context, options DbfsCreateOptions) (DbfsHandle, error)
	DbfsAddBlock(ctx context.Context, options DbfsAddBlockOptions) error
	DbfsClose(ctx context.Context, options DbfsHandle) error
	DbfsRead(ctx context.Context, options DbfsReadOptions) (ReadBlock, error)
	DbfsUpload(ctx context.Context, path string, overwrite bool, r io.Reader) (int64, error)
	DbfsDownload(ctx context.Context, path string, w io.Writer) (int64, error)
	SecretScopeCreate(ctx context.Context, options SecretScopeCreateOptions) error
	SecretScopeList(ctx context.Context) (SecretScopeList, error)
	SecretScopeDelete(ctx context.Context, options SecretScopeOptions) error
	SecretPut(ctx context.Context, options SecretPutOptions) error
	SecretList(ctx context.Context, options SecretScopeOptions) (SecretList, error)
	SecretDelete(ctx context.Context, options SecretDeleteOptions) error
	SecretAclPut(ctx context.Context, options SecretAclPutOptions) error
	SecretAclGet(ctx context.Context, options SecretAclOptions) (AclItem, error)
	SecretAclList(ctx context.Context, options SecretScopeOptions) (AclItemList, error)
	SecretAclDelete(ctx context.Context, options SecretAclOptions) error
	TokenCreate(ctx context.Context, lifetime time.Duration, comment string) (string, PublicTokenInfo, error)
	TokenList(ctx context.Context) (TokenList, error)
	TokenRevoke(ctx context.Context, options TokenRevokeOptions) error
	GroupCreate(ctx context.Context, options GroupNameOptions) error
	GroupList(ctx context.Context) (GroupNameList, error)
	GroupDelete(ctx context.Context, options GroupNameOptions) error
	GroupAddMember(ctx context.Context, options GroupMemberOptions) error
	GroupRemoveMember(ctx context.Context, options GroupMemberOptions) error
	GroupListMembers(ctx context.Context, options GroupNameOptions) (GroupMembers, error)
	GroupListParents(ctx context.Context, principal PrincipalName) (GroupNameList, error)
	InstancePoolCreate(ctx context.Context, attrs InstancePoolAttributes) (InstancePoolIDOptions, error)
	InstancePoolEdit(ctx context.Context, attrs InstancePoolAttributes) error
	InstancePoolGet(ctx context.Context, options InstancePoolIDOptions) (InstancePoolInfo, error)
	InstancePoolList(ctx context.Context) (InstancePoolList, error)
	InstancePoolDelete(ctx context.Context, options InstancePoolIDOptions) error
	PermissionLevels(ctx context.Context, obj PermissionObject) (PermissionLevelList, error)
	PermissionsGet(ctx context.Context, obj PermissionObject) (AccessControlList, error)
	PermissionsUpdate(ctx context.Context, obj PermissionObject, acl []AccessControlRequest) (AccessControlList, error)
	PermissionsReplace(ctx context.Context, obj PermissionObject, acl []AccessControlRequest) (AccessControlList, error)
}

var _ API = (*Client)(nil)
