// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"strconv"
	"sync"

	"github.com/azure-databricks/databricks-client-go/sdk/go/databrickstest"
	check "gopkg.in/check.v1"
)

var _ = check.Suite(&dbfsSuite{})

type dbfsSuite struct {
	stub   *databrickstest.APIStub
	client *Client

	mtx     sync.Mutex
	files   map[string][]byte
	handles map[int64]string
	closed  map[int64]bool
}

func (s *dbfsSuite) SetUpTest(c *check.C) {
	s.stub = databrickstest.NewAPIStub()
	s.client = &Client{Scheme: "http", APIHost: s.stub.Host(), AuthToken: "dapitest"}
	s.files = map[string][]byte{}
	s.handles = map[int64]string{}
	s.closed = map[int64]bool{}

	s.stub.Handle("POST", "dbfs/create", func(req databrickstest.RecordedRequest) databrickstest.StubResponse {
		var opts DbfsCreateOptions
		c.Check(req.DecodeBody(&opts), check.IsNil)
		s.mtx.Lock()
		defer s.mtx.Unlock()
		if _, exists := s.files[opts.Path]; exists && !opts.Overwrite {
			return databrickstest.StubResponse{Status: 400, Body: `{"error_code":"RESOURCE_ALREADY_EXISTS","message":"exists"}`}
		}
		h := int64(len(s.handles) + 1)
		s.handles[h] = opts.Path
		s.files[opts.Path] = nil
		return databrickstest.StubResponse{Body: `{"handle":` + strconv.FormatInt(h, 10) + `}`}
	})
	s.stub.Handle("POST", "dbfs/add-block", func(req databrickstest.RecordedRequest) databrickstest.StubResponse {
		var encoded struct {
			Data string `json:"data"`
		}
		c.Check(json.Unmarshal(req.Body, &encoded), check.IsNil)
		if len(encoded.Data) > 1<<20 {
			return databrickstest.StubResponse{Status: 400, Body: `{"error_code":"MAX_BLOCK_SIZE_EXCEEDED","message":"block too big"}`}
		}
		var opts DbfsAddBlockOptions
		c.Check(req.DecodeBody(&opts), check.IsNil)
		s.mtx.Lock()
		defer s.mtx.Unlock()
		path, ok := s.handles[opts.Handle]
		if !ok || s.closed[opts.Handle] {
			return databrickstest.StubResponse{Status: 400, Body: `{"error_code":"INVALID_PARAMETER_VALUE","message":"bad handle"}`}
		}
		s.files[path] = append(s.files[path], opts.Data...)
		return databrickstest.StubResponse{Body: `{}`}
	})
	s.stub.Handle("POST", "dbfs/close", func(req databrickstest.RecordedRequest) databrickstest.StubResponse {
		var opts DbfsHandle
		c.Check(req.DecodeBody(&opts), check.IsNil)
		s.mtx.Lock()
		defer s.mtx.Unlock()
		s.closed[opts.Handle] = true
		return databrickstest.StubResponse{Body: `{}`}
	})
	s.stub.Handle("GET", "dbfs/read", func(req databrickstest.RecordedRequest) databrickstest.StubResponse {
		offset, _ := strconv.ParseInt(req.Query.Get("offset"), 10, 64)
		length, _ := strconv.ParseInt(req.Query.Get("length"), 10, 64)
		c.Check(length <= 1<<20, check.Equals, true)
		s.mtx.Lock()
		data, ok := s.files[req.Query.Get("path")]
		s.mtx.Unlock()
		if !ok {
			return databrickstest.StubResponse{Status: 404, Body: `{"error_code":"RESOURCE_DOES_NOT_EXIST","message":"no such file"}`}
		}
		if offset > int64(len(data)) {
			offset = int64(len(data))
		}
		end := offset + length
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		block := ReadBlock{BytesRead: end - offset, Data: data[offset:end]}
		buf, err := json.Marshal(block)
		c.Check(err, check.IsNil)
		return databrickstest.StubResponse{Body: string(buf)}
	})
}

func (s *dbfsSuite) TearDownTest(c *check.C) {
	s.stub.Close()
}

func (s *dbfsSuite) countRequests(path string) int {
	n := 0
	for _, req := range s.stub.Requests() {
		if req.Path == path {
			n++
		}
	}
	return n
}

func (s *dbfsSuite) TestUploadDownload(c *check.C) {
	for _, size := range []int{0, 1, DbfsAddBlockSize - 1, DbfsAddBlockSize, DbfsAddBlockSize*2 + 12345} {
		c.Logf("size %d", size)
		data := make([]byte, size)
		rand.Read(data)
		path := "/tmp/test-" + strconv.Itoa(size)
		n, err := s.client.DbfsUpload(context.Background(), path, false, bytes.NewReader(data))
		c.Assert(err, check.IsNil)
		c.Check(n, check.Equals, int64(size))

		var buf bytes.Buffer
		n, err = s.client.DbfsDownload(context.Background(), path, &buf)
		c.Assert(err, check.IsNil)
		c.Check(n, check.Equals, int64(size))
		c.Check(bytes.Equal(buf.Bytes(), data), check.Equals, true)
	}
	c.Check(s.countRequests("dbfs/create"), check.Equals, 5)
	c.Check(s.countRequests("dbfs/close"), check.Equals, 5)
	// 0 + 1 + 1 + 1 + 3
	c.Check(s.countRequests("dbfs/add-block"), check.Equals, 6)
}

func (s *dbfsSuite) TestUploadExisting(c *check.C) {
	s.files["/exists"] = []byte("foo")
	_, err := s.client.DbfsUpload(context.Background(), "/exists", false, bytes.NewReader([]byte("bar")))
	c.Check(err, check.FitsTypeOf, &TransactionError{})
	c.Check(s.countRequests("dbfs/add-block"), check.Equals, 0)

	_, err = s.client.DbfsUpload(context.Background(), "/exists", true, bytes.NewReader([]byte("bar")))
	c.Check(err, check.IsNil)
	c.Check(string(s.files["/exists"]), check.Equals, "bar")
}

type failingReader struct{ n int }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.n <= 0 {
		return 0, io.ErrClosedPipe
	}
	if len(p) > r.n {
		p = p[:r.n]
	}
	r.n -= len(p)
	return len(p), nil
}

func (s *dbfsSuite) TestUploadReadError(c *check.C) {
	n, err := s.client.DbfsUpload(context.Background(), "/partial", false, &failingReader{n: DbfsAddBlockSize + 10})
	c.Check(err, check.Equals, io.ErrClosedPipe)
	c.Check(n, check.Equals, int64(DbfsAddBlockSize+10))
	// The handle is closed anyway.
	c.Check(s.countRequests("dbfs/close"), check.Equals, 1)
}

func (s *dbfsSuite) TestDownloadMissing(c *check.C) {
	var buf bytes.Buffer
	_, err := s.client.DbfsDownload(context.Background(), "/nonexistent", &buf)
	c.Assert(err, check.FitsTypeOf, &TransactionError{})
	c.Check(err.(*TransactionError).ErrorCode, check.Equals, "RESOURCE_DOES_NOT_EXIST")
}

func (s *dbfsSuite) TestAddBlockTooBig(c *check.C) {
	err := s.client.DbfsAddBlock(context.Background(), DbfsAddBlockOptions{Handle: 1, Data: make([]byte, DbfsAddBlockSize+1)})
	c.Check(err, check.ErrorMatches, `block size .* exceeds maximum .*`)
	c.Check(s.stub.Requests(), check.HasLen, 0)
}

func (s *dbfsSuite) TestList(c *check.C) {
	s.stub.Respond("GET", "dbfs/list", 200, `{"files":[{"path":"/a","is_dir":true,"file_size":0,"modification_time":1591222922000},{"path":"/b.txt","is_dir":false,"file_size":1024}]}`)
	list, err := s.client.DbfsList(context.Background(), DbfsPathOptions{Path: "/"})
	c.Assert(err, check.IsNil)
	c.Assert(list.Files, check.HasLen, 2)
	c.Check(list.Files[0].IsDir, check.Equals, true)
	c.Check(list.Files[1].FileSize, check.Equals, int64(1024))
	c.Check(s.stub.LastRequest().Query.Get("path"), check.Equals, "/")
}
