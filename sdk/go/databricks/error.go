// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TransactionError is returned when the server responds with a
// non-2xx status.
type TransactionError struct {
	Method     string
	URL        url.URL
	StatusCode int
	Status     string

	// Error code and message from the response body, e.g.,
	// "RESOURCE_DOES_NOT_EXIST", "Cluster 123 does not exist"
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func (e TransactionError) Error() (s string) {
	s = fmt.Sprintf("request failed: %s %s", e.Method, e.URL.String())
	if e.Status != "" {
		s = s + ": " + e.Status
	}
	var detail []string
	if e.ErrorCode != "" {
		detail = append(detail, e.ErrorCode)
	}
	if e.Message != "" {
		detail = append(detail, e.Message)
	}
	if len(detail) > 0 {
		s = s + ": " + strings.Join(detail, ": ")
	}
	return
}

// HTTPStatus returns the response status code.
func (e TransactionError) HTTPStatus() int {
	return e.StatusCode
}

func newTransactionError(req *http.Request, resp *http.Response, buf []byte) *TransactionError {
	var e TransactionError
	if json.Unmarshal(buf, &e) != nil {
		// No JSON-formatted error response
		e.ErrorCode, e.Message = "", ""
	}
	e.Method = req.Method
	e.URL = *req.URL
	if resp != nil {
		e.Status = resp.Status
		e.StatusCode = resp.StatusCode
	}
	return &e
}
