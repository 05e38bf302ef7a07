// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/azure-databricks/databricks-client-go/sdk/go/databrickstest"
	check "gopkg.in/check.v1"
)

var _ = check.Suite(&librariesSuite{})

type librariesSuite struct {
	stub   *databrickstest.APIStub
	client *Client
}

func (s *librariesSuite) SetUpTest(c *check.C) {
	s.stub = databrickstest.NewAPIStub()
	s.client = &Client{Scheme: "http", APIHost: s.stub.Host(), AuthToken: "dapitest"}
}

func (s *librariesSuite) TearDownTest(c *check.C) {
	s.stub.Close()
}

const clusterStatusJSON = `{
  "cluster_id": "0530-210517-viced348",
  "library_statuses": [
    {"library": {"jar": "dbfs:/mnt/libs/x.jar"}, "status": "INSTALLED", "is_library_for_all_clusters": false},
    {"library": {"pypi": {"package": "requests", "repo": null}}, "status": "PENDING", "is_library_for_all_clusters": true},
    {"library": {"maven": {"coordinates": "org.jsoup:jsoup:1.7.2", "exclusions": ["slf4j:slf4j"]}}, "status": "FAILED",
     "messages": ["Library resolution failed"]}
  ]
}`

func (s *librariesSuite) TestClusterStatus(c *check.C) {
	s.stub.Respond("GET", "libraries/cluster-status", 200, clusterStatusJSON)
	resp, err := s.client.LibrariesClusterStatus(context.Background(), ClusterIDOptions{ClusterID: "0530-210517-viced348"})
	c.Assert(err, check.IsNil)
	c.Check(s.stub.LastRequest().Query.Get("cluster_id"), check.Equals, "0530-210517-viced348")
	c.Check(resp.ClusterID, check.Equals, "0530-210517-viced348")
	c.Assert(resp.LibraryStatuses, check.HasLen, 3)
	c.Check(resp.LibraryStatuses[0].Library, check.DeepEquals, JarLibrary{Jar: "dbfs:/mnt/libs/x.jar"})
	c.Check(resp.LibraryStatuses[1].IsLibraryForAllClusters, check.Equals, true)
	c.Check(resp.LibraryStatuses[2].Messages, check.DeepEquals, []string{"Library resolution failed"})

	st, ok := FindLibraryStatus(resp.LibraryStatuses, MavenLibrary{Maven: MavenLibrarySpec{
		Coordinates: "org.jsoup:jsoup:1.7.2",
		Exclusions:  []string{"slf4j:slf4j"},
	}})
	c.Check(ok, check.Equals, true)
	c.Check(st.Status, check.Equals, LibraryStatusFailed)
	c.Check(st.Status.Terminal(), check.Equals, true)

	st, ok = FindLibraryStatus(resp.LibraryStatuses, PythonPyPiLibrary{PyPi: PythonPyPiLibrarySpec{Package: "requests"}})
	c.Check(ok, check.Equals, true)
	c.Check(st.Status.Terminal(), check.Equals, false)

	_, ok = FindLibraryStatus(resp.LibraryStatuses, EggLibrary{Egg: "dbfs:/mnt/libs/x.jar"})
	c.Check(ok, check.Equals, false)
}

func (s *librariesSuite) TestClusterStatusBadLibrary(c *check.C) {
	s.stub.Respond("GET", "libraries/cluster-status", 200, `{"cluster_id":"x","library_statuses":[{"library":{"conda":"x"},"status":"INSTALLED"}]}`)
	_, err := s.client.LibrariesClusterStatus(context.Background(), ClusterIDOptions{ClusterID: "x"})
	c.Check(errors.Is(err, ErrUnrecognizedLibraryKind), check.Equals, true)
}

func (s *librariesSuite) TestAllClusterStatuses(c *check.C) {
	s.stub.Respond("GET", "libraries/all-cluster-statuses", 200, `{"statuses":[`+clusterStatusJSON+`,{"cluster_id":"other"}]}`)
	resp, err := s.client.LibrariesAllClusterStatuses(context.Background())
	c.Assert(err, check.IsNil)
	c.Assert(resp.Statuses, check.HasLen, 2)
	c.Check(resp.Statuses[0].LibraryStatuses, check.HasLen, 3)
	c.Check(resp.Statuses[1].LibraryStatuses, check.HasLen, 0)
}

func (s *librariesSuite) TestInstallUninstall(c *check.C) {
	s.stub.Respond("POST", "libraries/install", 200, `{}`)
	s.stub.Respond("POST", "libraries/uninstall", 200, `{}`)
	opts := LibrariesOptions{
		ClusterID: "x",
		Libraries: Libraries{
			WheelLibrary{Wheel: "dbfs:/x.whl"},
			RCranLibrary{Cran: RCranLibrarySpec{Package: "dplyr"}},
		},
	}
	c.Check(s.client.LibrariesInstall(context.Background(), opts), check.IsNil)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"cluster_id":"x","libraries":[{"whl":"dbfs:/x.whl"},{"cran":{"package":"dplyr"}}]}`)
	c.Check(s.client.LibrariesUninstall(context.Background(), opts), check.IsNil)
	c.Check(s.stub.LastRequest().Path, check.Equals, "libraries/uninstall")

	// Nothing is sent if a library can't be encoded.
	opts.Libraries = append(opts.Libraries, embeddedJarLibrary{})
	err := s.client.LibrariesInstall(context.Background(), opts)
	var uve *UnsupportedVariantError
	c.Check(errors.As(err, &uve), check.Equals, true)
	c.Check(s.stub.Requests(), check.HasLen, 2)
}

func (s *librariesSuite) TestFullStatusJSON(c *check.C) {
	st := LibraryFullStatus{
		Library: PythonPyPiLibrary{PyPi: PythonPyPiLibrarySpec{Package: "requests"}},
		Status:  LibraryStatusInstalling,
	}
	buf, err := json.Marshal(st)
	c.Assert(err, check.IsNil)
	c.Check(string(buf), check.Equals, `{"library":{"pypi":{"package":"requests"}},"status":"INSTALLING"}`)
	var decoded LibraryFullStatus
	c.Assert(json.Unmarshal(buf, &decoded), check.IsNil)
	c.Check(decoded, check.DeepEquals, st)

	c.Assert(json.Unmarshal([]byte(`{"library":null,"status":"PENDING"}`), &decoded), check.IsNil)
	c.Check(decoded.Library, check.IsNil)
	c.Check(decoded.Status, check.Equals, LibraryStatusPending)
}
