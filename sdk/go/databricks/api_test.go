// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"time"

	"github.com/azure-databricks/databricks-client-go/sdk/go/databrickstest"
	check "gopkg.in/check.v1"
)

var _ = check.Suite(&apiSuite{})

// apiSuite checks the request and response shapes of the workspace,
// secrets, tokens, groups, instance pools, and permissions calls.
type apiSuite struct {
	stub   *databrickstest.APIStub
	client *Client
	ctx    context.Context
}

func (s *apiSuite) SetUpTest(c *check.C) {
	s.stub = databrickstest.NewAPIStub()
	s.client = &Client{Scheme: "http", APIHost: s.stub.Host(), AuthToken: "dapitest"}
	s.ctx = context.Background()
}

func (s *apiSuite) TearDownTest(c *check.C) {
	s.stub.Close()
}

func (s *apiSuite) TestWorkspace(c *check.C) {
	s.stub.Respond("POST", "workspace/import", 200, `{}`)
	s.stub.Respond("GET", "workspace/export", 200, `{"content":"cHJpbnQoImhlbGxvIik="}`)
	s.stub.Respond("GET", "workspace/list", 200, `{"objects":[{"object_type":"NOTEBOOK","object_id":123,"path":"/Users/me/nb","language":"PYTHON"},{"object_type":"DIRECTORY","object_id":124,"path":"/Users/me/dir"}]}`)
	s.stub.Respond("POST", "workspace/delete", 200, `{}`)

	err := s.client.WorkspaceImport(s.ctx, WorkspaceImportOptions{
		Path:     "/Users/me/nb",
		Format:   ExportFormatSource,
		Language: LanguagePython,
		Content:  []byte(`print("hello")`),
	})
	c.Check(err, check.IsNil)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"path":"/Users/me/nb","format":"SOURCE","language":"PYTHON","content":"cHJpbnQoImhlbGxvIik="}`)

	content, err := s.client.WorkspaceExport(s.ctx, WorkspaceExportOptions{Path: "/Users/me/nb", Format: ExportFormatSource})
	c.Check(err, check.IsNil)
	c.Check(string(content), check.Equals, `print("hello")`)
	c.Check(s.stub.LastRequest().Query.Get("format"), check.Equals, "SOURCE")

	list, err := s.client.WorkspaceList(s.ctx, WorkspacePathOptions{Path: "/Users/me"})
	c.Check(err, check.IsNil)
	c.Assert(list.Objects, check.HasLen, 2)
	c.Check(list.Objects[0].Language, check.Equals, LanguagePython)
	c.Check(list.Objects[1].ObjectType, check.Equals, ObjectTypeDirectory)

	c.Check(s.client.WorkspaceDelete(s.ctx, WorkspaceDeleteOptions{Path: "/Users/me/dir", Recursive: true}), check.IsNil)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"path":"/Users/me/dir","recursive":true}`)
}

func (s *apiSuite) TestSecrets(c *check.C) {
	s.stub.Respond("POST", "secrets/put", 200, `{}`)
	s.stub.Respond("GET", "secrets/list", 200, `{"secrets":[{"key":"pw","last_updated_timestamp":1591222922000}]}`)
	s.stub.Respond("GET", "secrets/acls/get", 200, `{"principal":"users","permission":"READ"}`)

	c.Check(s.client.SecretPut(s.ctx, SecretPutOptions{Scope: "s", Key: "pw"}), check.Equals, errSecretValue)
	c.Check(s.client.SecretPut(s.ctx, SecretPutOptions{Scope: "s", Key: "pw", StringValue: "a", BytesValue: []byte("b")}), check.Equals, errSecretValue)
	c.Check(s.stub.Requests(), check.HasLen, 0)

	c.Check(s.client.SecretPut(s.ctx, SecretPutOptions{Scope: "s", Key: "pw", BytesValue: []byte{0, 1, 2}}), check.IsNil)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"scope":"s","key":"pw","bytes_value":"AAEC"}`)

	list, err := s.client.SecretList(s.ctx, SecretScopeOptions{Scope: "s"})
	c.Check(err, check.IsNil)
	c.Check(list.Secrets, check.DeepEquals, []SecretMetadata{{Key: "pw", LastUpdatedTimestamp: 1591222922000}})

	acl, err := s.client.SecretAclGet(s.ctx, SecretAclOptions{Scope: "s", Principal: "users"})
	c.Check(err, check.IsNil)
	c.Check(acl.Permission, check.Equals, AclPermissionRead)
}

func (s *apiSuite) TestTokens(c *check.C) {
	s.stub.Respond("POST", "token/create", 200, `{"token_value":"dapi0123","token_info":{"token_id":"abc","creation_time":1591222922000,"expiry_time":1591309322000,"comment":"ci"}}`)
	value, info, err := s.client.TokenCreate(s.ctx, 24*time.Hour, "ci")
	c.Assert(err, check.IsNil)
	c.Check(value, check.Equals, "dapi0123")
	c.Check(info.TokenID, check.Equals, "abc")
	c.Check(info.ExpiryTime.Time().Sub(info.CreationTime.Time()), check.Equals, 24*time.Hour)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"lifetime_seconds":86400,"comment":"ci"}`)
}

func (s *apiSuite) TestGroups(c *check.C) {
	s.stub.Respond("POST", "groups/add-member", 200, `{}`)
	s.stub.Respond("GET", "groups/list-members", 200, `{"members":[{"user_name":"me@example.com"},{"group_name":"admins"}]}`)
	s.stub.Respond("GET", "groups/list-parents", 200, `{"group_names":["admins","users"]}`)

	err := s.client.GroupAddMember(s.ctx, GroupMemberOptions{PrincipalName: PrincipalName{UserName: "me@example.com"}, ParentName: "admins"})
	c.Check(err, check.IsNil)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"user_name":"me@example.com","parent_name":"admins"}`)

	members, err := s.client.GroupListMembers(s.ctx, GroupNameOptions{GroupName: "admins"})
	c.Check(err, check.IsNil)
	c.Assert(members.Members, check.HasLen, 2)
	c.Check(members.Members[0].String(), check.Equals, "user:me@example.com")
	c.Check(members.Members[1].String(), check.Equals, "group:admins")

	parents, err := s.client.GroupListParents(s.ctx, PrincipalName{GroupName: "devs"})
	c.Check(err, check.IsNil)
	c.Check(parents.GroupNames, check.DeepEquals, []string{"admins", "users"})
	c.Check(s.stub.LastRequest().Query.Get("group_name"), check.Equals, "devs")
}

func (s *apiSuite) TestInstancePools(c *check.C) {
	s.stub.Respond("POST", "instance-pools/create", 200, `{"instance_pool_id":"pool-1"}`)
	s.stub.Respond("GET", "instance-pools/get", 200, `{"instance_pool_id":"pool-1","instance_pool_name":"p","node_type_id":"Standard_D3_v2","state":"ACTIVE","stats":{"used_count":1,"idle_count":2,"pending_used_count":0,"pending_idle_count":0}}`)
	resp, err := s.client.InstancePoolCreate(s.ctx, InstancePoolAttributes{
		InstancePoolName: "p",
		NodeTypeID:       "Standard_D3_v2",
		MinIdleInstances: 2,
		DiskSpec:         &DiskSpec{DiskType: &DiskType{AzureDiskVolumeType: AzureDiskVolumeTypePremiumLRS}, DiskCount: 1, DiskSize: 128},
	})
	c.Assert(err, check.IsNil)
	c.Check(resp.InstancePoolID, check.Equals, "pool-1")
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"instance_pool_name":"p","min_idle_instances":2,"node_type_id":"Standard_D3_v2","disk_spec":{"disk_type":{"azure_disk_volume_type":"PREMIUM_LRS"},"disk_count":1,"disk_size":128}}`)

	info, err := s.client.InstancePoolGet(s.ctx, InstancePoolIDOptions{InstancePoolID: "pool-1"})
	c.Assert(err, check.IsNil)
	c.Check(info.State, check.Equals, InstancePoolStateActive)
	c.Check(info.Stats.IdleCount, check.Equals, int32(2))
	c.Check(info.InstancePoolName, check.Equals, "p")
}

func (s *apiSuite) TestPermissions(c *check.C) {
	s.stub.Respond("GET", "permissions/clusters/0530-210517-viced348/permissionLevels", 200, `{"permission_levels":[{"permission_level":"CAN_MANAGE","description":"Can manage"}]}`)
	s.stub.Respond("PATCH", "permissions/clusters/0530-210517-viced348", 200, `{"object_id":"/clusters/0530-210517-viced348","object_type":"cluster","access_control_list":[{"group_name":"admins","all_permissions":[{"permission_level":"CAN_MANAGE","inherited":true,"inherited_from_object":["/clusters/"]}]}]}`)
	s.stub.Respond("PUT", "permissions/authorization/tokens", 200, `{"object_id":"authorization/tokens","object_type":"tokens","access_control_list":[]}`)
	s.stub.Respond("GET", "permissions/sql/warehouses/w1", 200, `{"object_id":"/sql/warehouses/w1","object_type":"warehouses","access_control_list":[]}`)

	cluster := PermissionObject{ObjectType: PermissionObjectClusters, ObjectID: "0530-210517-viced348"}
	levels, err := s.client.PermissionLevels(s.ctx, cluster)
	c.Assert(err, check.IsNil)
	c.Check(levels.PermissionLevels[0].PermissionLevel, check.Equals, PermissionLevelCanManage)

	acl, err := s.client.PermissionsUpdate(s.ctx, cluster, []AccessControlRequest{{UserName: "me@example.com", PermissionLevel: PermissionLevelCanRestart}})
	c.Assert(err, check.IsNil)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"access_control_list":[{"user_name":"me@example.com","permission_level":"CAN_RESTART"}]}`)
	c.Check(acl.AccessControlList[0].AllPermissions[0].Inherited, check.Equals, true)

	_, err = s.client.PermissionsReplace(s.ctx, PermissionObject{ObjectType: PermissionObjectTokens}, nil)
	c.Check(err, check.IsNil)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"access_control_list":[]}`)

	_, err = s.client.PermissionsGet(s.ctx, PermissionObject{ObjectType: PermissionObjectSQLWarehouses, ObjectID: "w1"})
	c.Check(err, check.IsNil)

	_, err = s.client.PermissionsGet(s.ctx, PermissionObject{ObjectType: PermissionObjectJobs})
	c.Check(err, check.ErrorMatches, `object ID not given .*`)
}

func (s *apiSuite) TestPermissionPaths(c *check.C) {
	for _, trial := range []struct {
		obj    PermissionObject
		ep     APIEndpoint
		expect string
	}{
		{PermissionObject{PermissionObjectJobs, "12"}, EndpointPermissionsGet, "permissions/jobs/12"},
		{PermissionObject{PermissionObjectJobs, "12"}, EndpointPermissionLevels, "permissions/jobs/12/permissionLevels"},
		{PermissionObject{PermissionObjectTokens, ""}, EndpointPermissionsGet, "permissions/authorization/tokens"},
		{PermissionObject{PermissionObjectTokens, ""}, EndpointPermissionLevels, "permissions/authorization/tokens/permissionLevels"},
		{PermissionObject{PermissionObjectRegisteredModels, "m1"}, EndpointPermissionsReplace, "permissions/registered-models/m1"},
	} {
		p, err := trial.obj.path(trial.ep)
		c.Check(err, check.IsNil)
		c.Check(p, check.Equals, trial.expect)
	}
}
