// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import "context"

// PrincipalName identifies a user or a group. Set exactly one field.
type PrincipalName struct {
	UserName  string `json:"user_name,omitempty"`
	GroupName string `json:"group_name,omitempty"`
}

func (p PrincipalName) String() string {
	if p.UserName != "" {
		return "user:" + p.UserName
	}
	return "group:" + p.GroupName
}

type GroupNameOptions struct {
	GroupName string `json:"group_name"`
}

type GroupNameList struct {
	GroupNames []string `json:"group_names"`
}

type GroupMembers struct {
	Members []PrincipalName `json:"members"`
}

// GroupMemberOptions adds a principal to, or removes it from, the
// group ParentName.
type GroupMemberOptions struct {
	PrincipalName
	ParentName string `json:"parent_name"`
}

func (c *Client) GroupCreate(ctx context.Context, options GroupNameOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointGroupCreate.Method, EndpointGroupCreate.Path, options)
}

func (c *Client) GroupList(ctx context.Context) (GroupNameList, error) {
	var resp GroupNameList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointGroupList.Method, EndpointGroupList.Path, nil)
	return resp, err
}

func (c *Client) GroupDelete(ctx context.Context, options GroupNameOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointGroupDelete.Method, EndpointGroupDelete.Path, options)
}

func (c *Client) GroupAddMember(ctx context.Context, options GroupMemberOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointGroupAddMember.Method, EndpointGroupAddMember.Path, options)
}

func (c *Client) GroupRemoveMember(ctx context.Context, options GroupMemberOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointGroupRemoveMember.Method, EndpointGroupRemoveMember.Path, options)
}

// GroupListMembers returns the direct members of a group (not
// members of nested groups).
func (c *Client) GroupListMembers(ctx context.Context, options GroupNameOptions) (GroupMembers, error) {
	var resp GroupMembers
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointGroupListMembers.Method, EndpointGroupListMembers.Path, options)
	return resp, err
}

// GroupListParents returns the groups the given principal belongs to
// directly.
func (c *Client) GroupListParents(ctx context.Context, principal PrincipalName) (GroupNameList, error) {
	var resp GroupNameList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointGroupListParents.Method, EndpointGroupListParents.Path, principal)
	return resp, err
}
