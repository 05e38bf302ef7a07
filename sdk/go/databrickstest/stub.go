// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package databrickstest provides a stub workspace API server for
// testing clients.
package databrickstest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/julienschmidt/httprouter"
)

// StubResponse is a canned response: status code and JSON body.
type StubResponse struct {
	Status int
	Body   string
}

// RecordedRequest is a request received by an APIStub.
type RecordedRequest struct {
	Method string
	// Path relative to /api/2.0/, e.g., "clusters/get"
	Path   string
	Params httprouter.Params
	Query  url.Values
	Header http.Header
	Body   []byte
}

// DecodeBody unmarshals the request body into dst.
func (r RecordedRequest) DecodeBody(dst interface{}) error {
	return json.Unmarshal(r.Body, dst)
}

// A HandlerFunc computes a response to a recorded request.
type HandlerFunc func(RecordedRequest) StubResponse

// APIStub is a workspace API server that serves canned responses,
// and records every request it receives.
//
// Paths given to Respond and Handle are relative to /api/2.0/ and
// may contain httprouter parameters (":name").
type APIStub struct {
	Server *httptest.Server

	mtx      sync.Mutex
	router   *httprouter.Router
	handlers map[string]HandlerFunc
	requests []RecordedRequest
}

const apiPrefix = "/api/2.0/"

// NewAPIStub starts a new stub server. Call Close when done.
func NewAPIStub() *APIStub {
	stub := &APIStub{
		router:   httprouter.New(),
		handlers: map[string]HandlerFunc{},
	}
	stub.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		stub.record(req, nil)
		writeJSON(w, StubResponse{http.StatusNotFound, `{"error_code":"ENDPOINT_NOT_FOUND","message":"No API found for '` + req.Method + ` ` + req.URL.Path + `'"}`})
	})
	stub.Server = httptest.NewServer(stub.router)
	return stub
}

// Host returns the server's host:port, suitable for
// databricks.Client's APIHost (with Scheme "http").
func (stub *APIStub) Host() string {
	return strings.TrimPrefix(stub.Server.URL, "http://")
}

func (stub *APIStub) Close() {
	stub.Server.Close()
}

// Respond arranges for requests matching method and path to get the
// given status and body.
func (stub *APIStub) Respond(method, path string, status int, body string) {
	stub.Handle(method, path, func(RecordedRequest) StubResponse {
		return StubResponse{Status: status, Body: body}
	})
}

// Handle arranges for requests matching method and path to get the
// response returned by h. A later call for the same method and path
// replaces h.
func (stub *APIStub) Handle(method, path string, h HandlerFunc) {
	stub.mtx.Lock()
	defer stub.mtx.Unlock()
	key := method + " " + path
	if _, exists := stub.handlers[key]; !exists {
		stub.router.Handle(method, apiPrefix+path, func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
			stub.mtx.Lock()
			h := stub.handlers[key]
			stub.mtx.Unlock()
			writeJSON(w, h(stub.record(req, params)))
		})
	}
	stub.handlers[key] = h
}

// Requests returns all requests received so far, oldest first.
func (stub *APIStub) Requests() []RecordedRequest {
	stub.mtx.Lock()
	defer stub.mtx.Unlock()
	return append([]RecordedRequest(nil), stub.requests...)
}

// LastRequest returns the most recent request. It panics if no
// requests have been received.
func (stub *APIStub) LastRequest() RecordedRequest {
	reqs := stub.Requests()
	return reqs[len(reqs)-1]
}

func (stub *APIStub) record(req *http.Request, params httprouter.Params) RecordedRequest {
	body, _ := io.ReadAll(req.Body)
	rr := RecordedRequest{
		Method: req.Method,
		Path:   strings.TrimPrefix(req.URL.Path, apiPrefix),
		Params: params,
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Body:   body,
	}
	stub.mtx.Lock()
	stub.requests = append(stub.requests, rr)
	stub.mtx.Unlock()
	return rr
}

func writeJSON(w http.ResponseWriter, resp StubResponse) {
	w.Header().Set("Content-Type", "application/json")
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	w.WriteHeader(resp.Status)
	io.WriteString(w, resp.Body)
}
