// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import "context"

type ObjectType string

const (
	ObjectTypeNotebook  = ObjectType("NOTEBOOK")
	ObjectTypeDirectory = ObjectType("DIRECTORY")
	ObjectTypeLibrary   = ObjectType("LIBRARY")
	ObjectTypeFile      = ObjectType("FILE")
	ObjectTypeRepo      = ObjectType("REPO")
)

type Language string

const (
	LanguageScala  = Language("SCALA")
	LanguagePython = Language("PYTHON")
	LanguageSQL    = Language("SQL")
	LanguageR      = Language("R")
)

type ExportFormat string

const (
	ExportFormatSource  = ExportFormat("SOURCE")
	ExportFormatHTML    = ExportFormat("HTML")
	ExportFormatJupyter = ExportFormat("JUPYTER")
	ExportFormatDBC     = ExportFormat("DBC")
)

// ObjectInfo describes a notebook, directory, or library in the
// workspace tree.
type ObjectInfo struct {
	ObjectType ObjectType `json:"object_type"`
	ObjectID   int64      `json:"object_id"`
	Path       string     `json:"path"`
	Language   Language   `json:"language,omitempty"`
}

type ObjectInfoList struct {
	Objects []ObjectInfo `json:"objects"`
}

type WorkspacePathOptions struct {
	Path string `json:"path"`
}

type WorkspaceDeleteOptions struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive,omitempty"`
}

// WorkspaceImportOptions imports a notebook or directory. Content is
// sent base64-encoded. Language is required when Format is
// ExportFormatSource.
type WorkspaceImportOptions struct {
	Path      string       `json:"path"`
	Format    ExportFormat `json:"format,omitempty"`
	Language  Language     `json:"language,omitempty"`
	Content   []byte       `json:"content"`
	Overwrite bool         `json:"overwrite,omitempty"`
}

type WorkspaceExportOptions struct {
	Path   string       `json:"path"`
	Format ExportFormat `json:"format,omitempty"`
}

type WorkspaceExportResponse struct {
	Content []byte `json:"content"`
}

func (c *Client) WorkspaceMkdirs(ctx context.Context, options WorkspacePathOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointWorkspaceMkdirs.Method, EndpointWorkspaceMkdirs.Path, options)
}

func (c *Client) WorkspaceImport(ctx context.Context, options WorkspaceImportOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointWorkspaceImport.Method, EndpointWorkspaceImport.Path, options)
}

// WorkspaceExport returns the decoded content of a notebook or
// directory.
func (c *Client) WorkspaceExport(ctx context.Context, options WorkspaceExportOptions) ([]byte, error) {
	var resp WorkspaceExportResponse
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointWorkspaceExport.Method, EndpointWorkspaceExport.Path, options)
	return resp.Content, err
}

func (c *Client) WorkspaceGetStatus(ctx context.Context, options WorkspacePathOptions) (ObjectInfo, error) {
	var resp ObjectInfo
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointWorkspaceGetStatus.Method, EndpointWorkspaceGetStatus.Path, options)
	return resp, err
}

func (c *Client) WorkspaceList(ctx context.Context, options WorkspacePathOptions) (ObjectInfoList, error) {
	var resp ObjectInfoList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointWorkspaceList.Method, EndpointWorkspaceList.Path, options)
	return resp, err
}

func (c *Client) WorkspaceDelete(ctx context.Context, options WorkspaceDeleteOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointWorkspaceDelete.Method, EndpointWorkspaceDelete.Path, options)
}
