// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const (
	// DbfsAddBlockSize is the largest amount of data DbfsAddBlock
	// accepts in one call. The server limits the base64-encoded
	// block to 1 MiB, which is 3/4 MiB before encoding.
	DbfsAddBlockSize = 3 << 18

	// DbfsReadSize is the largest length DbfsRead accepts.
	DbfsReadSize = 1 << 20
)

type FileInfo struct {
	Path             string `json:"path"`
	IsDir            bool   `json:"is_dir"`
	FileSize         int64  `json:"file_size"`
	ModificationTime Millis `json:"modification_time,omitempty"`
}

type FileList struct {
	Files []FileInfo `json:"files"`
}

type DbfsPathOptions struct {
	Path string `json:"path"`
}

type DbfsDeleteOptions struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive,omitempty"`
}

type DbfsMoveOptions struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
}

type DbfsCreateOptions struct {
	Path      string `json:"path"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

type DbfsHandle struct {
	Handle int64 `json:"handle"`
}

type DbfsAddBlockOptions struct {
	Handle int64  `json:"handle"`
	Data   []byte `json:"data"`
}

type DbfsReadOptions struct {
	Path   string `json:"path"`
	Offset int64  `json:"offset,omitempty"`
	Length int64  `json:"length,omitempty"`
}

// ReadBlock is the response to DbfsRead. BytesRead is zero at end of
// file.
type ReadBlock struct {
	BytesRead int64  `json:"bytes_read"`
	Data      []byte `json:"data"`
}

func (c *Client) DbfsList(ctx context.Context, options DbfsPathOptions) (FileList, error) {
	var resp FileList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointDbfsList.Method, EndpointDbfsList.Path, options)
	return resp, err
}

func (c *Client) DbfsGetStatus(ctx context.Context, options DbfsPathOptions) (FileInfo, error) {
	var resp FileInfo
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointDbfsGetStatus.Method, EndpointDbfsGetStatus.Path, options)
	return resp, err
}

func (c *Client) DbfsMkdirs(ctx context.Context, options DbfsPathOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointDbfsMkdirs.Method, EndpointDbfsMkdirs.Path, options)
}

func (c *Client) DbfsMove(ctx context.Context, options DbfsMoveOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointDbfsMove.Method, EndpointDbfsMove.Path, options)
}

func (c *Client) DbfsDelete(ctx context.Context, options DbfsDeleteOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointDbfsDelete.Method, EndpointDbfsDelete.Path, options)
}

// DbfsCreate opens a stream for writing a file. The returned handle
// expires after 10 minutes without activity.
func (c *Client) DbfsCreate(ctx context.Context, options DbfsCreateOptions) (DbfsHandle, error) {
	var resp DbfsHandle
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointDbfsCreate.Method, EndpointDbfsCreate.Path, options)
	return resp, err
}

func (c *Client) DbfsAddBlock(ctx context.Context, options DbfsAddBlockOptions) error {
	if len(options.Data) > DbfsAddBlockSize {
		return fmt.Errorf("block size %d exceeds maximum %d", len(options.Data), DbfsAddBlockSize)
	}
	return c.RequestAndDecodeContext(ctx, nil, EndpointDbfsAddBlock.Method, EndpointDbfsAddBlock.Path, options)
}

func (c *Client) DbfsClose(ctx context.Context, options DbfsHandle) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointDbfsClose.Method, EndpointDbfsClose.Path, options)
}

func (c *Client) DbfsRead(ctx context.Context, options DbfsReadOptions) (ReadBlock, error) {
	var resp ReadBlock
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointDbfsRead.Method, EndpointDbfsRead.Path, options)
	return resp, err
}

// DbfsUpload copies everything from r to a new file at path, one
// block at a time, and returns the number of bytes written. The write
// handle is closed even if an error occurs.
func (c *Client) DbfsUpload(ctx context.Context, path string, overwrite bool, r io.Reader) (n int64, err error) {
	h, err := c.DbfsCreate(ctx, DbfsCreateOptions{Path: path, Overwrite: overwrite})
	if err != nil {
		return 0, err
	}
	defer func() {
		cerr := c.DbfsClose(ctx, h)
		if err == nil {
			err = cerr
		}
	}()
	buf := make([]byte, DbfsAddBlockSize)
	for {
		var got int
		got, err = io.ReadFull(r, buf)
		if got > 0 {
			if aerr := c.DbfsAddBlock(ctx, DbfsAddBlockOptions{Handle: h.Handle, Data: buf[:got]}); aerr != nil {
				return n, aerr
			}
			n += int64(got)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return n, nil
		} else if err != nil {
			return n, err
		}
	}
}

// DbfsDownload copies the file at path to w and returns the number of
// bytes copied.
func (c *Client) DbfsDownload(ctx context.Context, path string, w io.Writer) (int64, error) {
	var n int64
	for {
		block, err := c.DbfsRead(ctx, DbfsReadOptions{Path: path, Offset: n, Length: DbfsReadSize})
		if err != nil {
			return n, err
		}
		if block.BytesRead == 0 {
			return n, nil
		}
		wrote, err := w.Write(block.Data)
		n += int64(wrote)
		if err != nil {
			return n, err
		}
	}
}
