// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"errors"
)

type ScopeBackendType string

const (
	ScopeBackendTypeDatabricks    = ScopeBackendType("DATABRICKS")
	ScopeBackendTypeAzureKeyVault = ScopeBackendType("AZURE_KEYVAULT")
)

type AclPermission string

const (
	AclPermissionRead   = AclPermission("READ")
	AclPermissionWrite  = AclPermission("WRITE")
	AclPermissionManage = AclPermission("MANAGE")
)

type SecretScope struct {
	Name        string           `json:"name"`
	BackendType ScopeBackendType `json:"backend_type,omitempty"`
}

type SecretScopeList struct {
	Scopes []SecretScope `json:"scopes"`
}

type SecretScopeCreateOptions struct {
	Scope string `json:"scope"`
	// "users" to let all users manage the scope. If empty, only
	// the creator can manage it.
	InitialManagePrincipal string `json:"initial_manage_principal,omitempty"`
}

type SecretScopeOptions struct {
	Scope string `json:"scope"`
}

// SecretPutOptions stores a secret. Exactly one of StringValue and
// BytesValue must be set.
type SecretPutOptions struct {
	Scope       string `json:"scope"`
	Key         string `json:"key"`
	StringValue string `json:"string_value,omitempty"`
	BytesValue  []byte `json:"bytes_value,omitempty"`
}

type SecretDeleteOptions struct {
	Scope string `json:"scope"`
	Key   string `json:"key"`
}

type SecretMetadata struct {
	Key                  string `json:"key"`
	LastUpdatedTimestamp Millis `json:"last_updated_timestamp,omitempty"`
}

type SecretList struct {
	Secrets []SecretMetadata `json:"secrets"`
}

type AclItem struct {
	Principal  string        `json:"principal"`
	Permission AclPermission `json:"permission"`
}

type AclItemList struct {
	Items []AclItem `json:"items"`
}

type SecretAclPutOptions struct {
	Scope      string        `json:"scope"`
	Principal  string        `json:"principal"`
	Permission AclPermission `json:"permission"`
}

type SecretAclOptions struct {
	Scope     string `json:"scope"`
	Principal string `json:"principal"`
}

var errSecretValue = errors.New("exactly one of StringValue and BytesValue must be given")

func (c *Client) SecretScopeCreate(ctx context.Context, options SecretScopeCreateOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointSecretScopeCreate.Method, EndpointSecretScopeCreate.Path, options)
}

func (c *Client) SecretScopeList(ctx context.Context) (SecretScopeList, error) {
	var resp SecretScopeList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointSecretScopeList.Method, EndpointSecretScopeList.Path, nil)
	return resp, err
}

// SecretScopeDelete deletes a scope and all secrets and ACLs in it.
func (c *Client) SecretScopeDelete(ctx context.Context, options SecretScopeOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointSecretScopeDelete.Method, EndpointSecretScopeDelete.Path, options)
}

// SecretPut creates or overwrites a secret.
func (c *Client) SecretPut(ctx context.Context, options SecretPutOptions) error {
	if (options.StringValue == "") == (options.BytesValue == nil) {
		return errSecretValue
	}
	return c.RequestAndDecodeContext(ctx, nil, EndpointSecretPut.Method, EndpointSecretPut.Path, options)
}

// SecretList returns the keys in a scope. Secret values can't be
// read through the API.
func (c *Client) SecretList(ctx context.Context, options SecretScopeOptions) (SecretList, error) {
	var resp SecretList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointSecretList.Method, EndpointSecretList.Path, options)
	return resp, err
}

func (c *Client) SecretDelete(ctx context.Context, options SecretDeleteOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointSecretDelete.Method, EndpointSecretDelete.Path, options)
}

func (c *Client) SecretAclPut(ctx context.Context, options SecretAclPutOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointSecretAclPut.Method, EndpointSecretAclPut.Path, options)
}

func (c *Client) SecretAclGet(ctx context.Context, options SecretAclOptions) (AclItem, error) {
	var resp AclItem
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointSecretAclGet.Method, EndpointSecretAclGet.Path, options)
	return resp, err
}

func (c *Client) SecretAclList(ctx context.Context, options SecretScopeOptions) (AclItemList, error) {
	var resp AclItemList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointSecretAclList.Method, EndpointSecretAclList.Path, options)
	return resp, err
}

func (c *Client) SecretAclDelete(ctx context.Context, options SecretAclOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointSecretAclDelete.Method, EndpointSecretAclDelete.Path, options)
}
