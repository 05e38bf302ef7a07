// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"time"
)

// PublicTokenInfo describes a personal access token without
// revealing its value.
type PublicTokenInfo struct {
	TokenID      string `json:"token_id"`
	CreationTime Millis `json:"creation_time"`
	// -1 if the token never expires.
	ExpiryTime Millis `json:"expiry_time"`
	Comment    string `json:"comment,omitempty"`
}

type TokenCreateOptions struct {
	LifetimeSeconds int64  `json:"lifetime_seconds,omitempty"`
	Comment         string `json:"comment,omitempty"`
}

type TokenCreateResponse struct {
	TokenValue string          `json:"token_value"`
	TokenInfo  PublicTokenInfo `json:"token_info"`
}

type TokenList struct {
	TokenInfos []PublicTokenInfo `json:"token_infos"`
}

type TokenRevokeOptions struct {
	TokenID string `json:"token_id"`
}

// TokenCreate creates a personal access token for the calling user
// and returns its secret value. A zero lifetime means the token does
// not expire.
func (c *Client) TokenCreate(ctx context.Context, lifetime time.Duration, comment string) (string, PublicTokenInfo, error) {
	var resp TokenCreateResponse
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointTokenCreate.Method, EndpointTokenCreate.Path, TokenCreateOptions{
		LifetimeSeconds: int64(lifetime / time.Second),
		Comment:         comment,
	})
	return resp.TokenValue, resp.TokenInfo, err
}

func (c *Client) TokenList(ctx context.Context) (TokenList, error) {
	var resp TokenList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointTokenList.Method, EndpointTokenList.Path, nil)
	return resp, err
}

func (c *Client) TokenRevoke(ctx context.Context, options TokenRevokeOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointTokenRevoke.Method, EndpointTokenRevoke.Path, options)
}
