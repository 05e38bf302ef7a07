// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/azure-databricks/databricks-client-go/sdk/go/ctxlog"
	"github.com/sirupsen/logrus"
)

// APIVersionPath is prepended to every endpoint path.
const APIVersionPath = "api/2.0/"

// A Client is an HTTP client with a workspace URL and a personal
// access token.
//
// It offers one method per REST API call (see API) plus helpers that
// combine several calls, like DbfsUpload.
type Client struct {
	// HTTP client used to make requests. If nil,
	// DefaultSecureClient or InsecureHTTPClient will be used.
	Client *http.Client `json:"-"`

	// Protocol scheme: "http", "https", or "" (https)
	Scheme string

	// Hostname (or host:port) of the workspace, e.g.,
	// "adb-1234567890123456.7.azuredatabricks.net".
	APIHost string

	// Personal access token.
	AuthToken string

	// Accept unverified certificates. This works only if the
	// Client field is nil: otherwise, it has no effect.
	Insecure bool

	// HTTP headers to add/override in outgoing requests.
	SendHeader http.Header

	// Timeout for requests. NewClientFromEnv and
	// NewClientFromProfile return a Client with a default 5
	// minute timeout. To disable this timeout and rely on each
	// http.Request's context deadline instead, set Timeout to
	// zero.
	Timeout time.Duration

	// Logger used when the request context doesn't carry one.
	Logger logrus.FieldLogger `json:"-"`

	defaultRequestID string

	// APIHost and AuthToken were loaded from DATABRICKS_* env
	// vars (used to customize "no host/token" error messages)
	loadedFromEnv bool
}

// InsecureHTTPClient is the default http.Client used by a Client with
// Insecure==true and Client==nil.
var InsecureHTTPClient = &http.Client{
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true}}}

// DefaultSecureClient is the default http.Client used by a Client otherwise.
var DefaultSecureClient = &http.Client{}

// UserAgent is sent with every request.
var UserAgent = "databricks-client-go/" + Version

// Version is the SDK version string. It is overridden at build time
// with -ldflags "-X ...".
var Version = "dev"

// NewClientFromEnv creates a new Client that uses the default HTTP
// client with the workspace URL and token given by the DATABRICKS_*
// environment variables.
func NewClientFromEnv() *Client {
	var insecure bool
	if s := strings.ToLower(os.Getenv("DATABRICKS_INSECURE")); s == "1" || s == "yes" || s == "true" {
		insecure = true
	}
	scheme, host := splitHostURL(os.Getenv("DATABRICKS_HOST"))
	return &Client{
		Scheme:        scheme,
		APIHost:       host,
		AuthToken:     os.Getenv("DATABRICKS_TOKEN"),
		Insecure:      insecure,
		Timeout:       5 * time.Minute,
		loadedFromEnv: true,
	}
}

// NewClientFromProfile creates a new Client that uses the host,
// token, and timeout in the given profile.
func NewClientFromProfile(p *Profile) (*Client, error) {
	scheme, host := splitHostURL(p.Host)
	if host == "" {
		return nil, fmt.Errorf("no host in profile: %q", p.Host)
	}
	timeout := p.Timeout.Duration()
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		Scheme:    scheme,
		APIHost:   host,
		AuthToken: p.Token,
		Insecure:  p.Insecure,
		Timeout:   timeout,
	}, nil
}

// splitHostURL accepts either "https://host:port/" or a bare
// "host:port".
func splitHostURL(s string) (scheme, host string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		return u.Scheme, u.Host
	}
	return "", strings.TrimSuffix(s, "/")
}

var reqIDGen = IDGenerator{Prefix: "req-"}

// Do adds Authorization, User-Agent, and X-Request-Id headers and
// then calls (*http.Client)Do().
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if auth, _ := req.Context().Value(contextKeyAuthorization{}).(string); auth != "" {
		req.Header.Set("Authorization", auth)
	} else if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}

	reqid := req.Header.Get("X-Request-Id")
	if reqid == "" {
		if ctxreqid, _ := req.Context().Value(contextKeyRequestID{}).(string); ctxreqid != "" {
			reqid = ctxreqid
		} else if c.defaultRequestID != "" {
			reqid = c.defaultRequestID
		} else {
			reqid = reqIDGen.Next()
		}
		req.Header.Set("X-Request-Id", reqid)
	}

	logger := c.logger(req.Context()).WithFields(logrus.Fields{
		"RequestID": reqid,
		"Method":    req.Method,
		"URL":       req.URL.String(),
	})

	var cancel context.CancelFunc
	if c.Timeout > 0 {
		ctx := req.Context()
		ctx, cancel = context.WithDeadline(ctx, time.Now().Add(c.Timeout))
		req = req.WithContext(ctx)
	}
	t0 := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		logger.WithError(err).Debug("request failed")
	} else {
		logger.WithFields(logrus.Fields{
			"StatusCode": resp.StatusCode,
			"Duration":   time.Since(t0).Seconds(),
		}).Debug("response")
	}
	if err == nil && cancel != nil {
		// We need to call cancel() eventually, but we can't
		// use "defer cancel()" because the context has to
		// stay alive until the caller has finished reading
		// the response body.
		resp.Body = cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	} else if cancel != nil {
		cancel()
	}
	return resp, err
}

func (c *Client) logger(ctx context.Context) logrus.FieldLogger {
	if _, ok := ctxlog.LoggerFromContext(ctx); ok || c.Logger == nil {
		return ctxlog.FromContext(ctx)
	}
	return c.Logger
}

// cancelOnClose calls a provided CancelFunc when its wrapped
// ReadCloser's Close() method is called.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (coc cancelOnClose) Close() error {
	err := coc.ReadCloser.Close()
	coc.cancel()
	return err
}

// DoAndDecode performs req and unmarshals the response (which must be
// JSON) into dst. Use this instead of RequestAndDecode if you need
// more control of the http.Request object.
func (c *Client) DoAndDecode(dst interface{}, req *http.Request) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return newTransactionError(req, resp, buf)
	case dst == nil || len(bytes.TrimSpace(buf)) == 0:
		return nil
	default:
		return json.Unmarshal(buf, dst)
	}
}

// Convert an arbitrary struct to url.Values. For example,
//
//	Foo{Bar: []int{1,2,3}, Baz: "waz"}
//
// becomes
//
//	url.Values{`bar`:`[1,2,3]`,`Baz`:`waz`}
//
// params itself is returned if it is already an url.Values.
func anythingToValues(params interface{}) (url.Values, error) {
	if v, ok := params.(url.Values); ok {
		return v, nil
	}
	j, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	var generic map[string]interface{}
	dec := json.NewDecoder(bytes.NewBuffer(j))
	dec.UseNumber()
	err = dec.Decode(&generic)
	if err != nil {
		return nil, err
	}
	urlValues := url.Values{}
	for k, v := range generic {
		if v, ok := v.(string); ok {
			urlValues.Set(k, v)
			continue
		}
		if v, ok := v.(json.Number); ok {
			urlValues.Set(k, v.String())
			continue
		}
		if v, ok := v.(bool); ok {
			if v {
				urlValues.Set(k, "true")
			} else {
				urlValues.Set(k, "false")
			}
			continue
		}
		j, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(j, []byte("null")) {
			// don't add it to urlValues at all
			continue
		}
		urlValues.Set(k, string(j))
	}
	return urlValues, nil
}

// RequestAndDecode performs an API request and unmarshals the
// response (which must be JSON) into dst. The given path is added to
// the server's scheme/host/port to form the request URL.
//
// For GET and DELETE requests, params are sent in the query string;
// otherwise they are sent as a JSON request body.
//
// path must not contain a query string.
func (c *Client) RequestAndDecode(dst interface{}, method, path string, params interface{}) error {
	return c.RequestAndDecodeContext(context.Background(), dst, method, path, params)
}

// RequestAndDecodeContext does the same as RequestAndDecode, but with a context
func (c *Client) RequestAndDecodeContext(ctx context.Context, dst interface{}, method, path string, params interface{}) error {
	if c.APIHost == "" {
		if c.loadedFromEnv {
			return errors.New("DATABRICKS_HOST and/or DATABRICKS_TOKEN environment variables are not set")
		}
		return errors.New("databricks.Client cannot perform request: APIHost is not set")
	}
	urlString := c.apiURL(path)
	var body io.Reader
	if params == nil {
		// Nothing to send
	} else if method == http.MethodGet || method == http.MethodHead || method == http.MethodDelete {
		urlValues, err := anythingToValues(params)
		if err != nil {
			return err
		}
		u, err := url.Parse(urlString)
		if err != nil {
			return err
		}
		u.RawQuery = urlValues.Encode()
		urlString = u.String()
	} else {
		j, err := json.Marshal(params)
		if err != nil {
			return err
		}
		body = bytes.NewReader(j)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlString, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.SendHeader {
		req.Header[k] = v
	}
	return c.DoAndDecode(dst, req)
}

// WithRequestID returns a new shallow copy of c that sends the given
// X-Request-Id value (instead of a new randomly generated one) with
// each subsequent request that doesn't provide its own via context or
// header.
func (c *Client) WithRequestID(reqid string) *Client {
	cc := *c
	cc.defaultRequestID = reqid
	return &cc
}

func (c *Client) httpClient() *http.Client {
	switch {
	case c.Client != nil:
		return c.Client
	case c.Insecure:
		return InsecureHTTPClient
	default:
		return DefaultSecureClient
	}
}

func (c *Client) apiURL(path string) string {
	scheme := c.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + c.APIHost + "/" + APIVersionPath + path
}
