// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"encoding/json"

	"github.com/azure-databricks/databricks-client-go/sdk/go/databrickstest"
	check "gopkg.in/check.v1"
)

var _ = check.Suite(&clusterSuite{})

type clusterSuite struct {
	stub   *databrickstest.APIStub
	client *Client
}

func (s *clusterSuite) SetUpTest(c *check.C) {
	s.stub = databrickstest.NewAPIStub()
	s.client = &Client{Scheme: "http", APIHost: s.stub.Host(), AuthToken: "dapitest"}
}

func (s *clusterSuite) TearDownTest(c *check.C) {
	s.stub.Close()
}

func (s *clusterSuite) TestBuilders(c *check.C) {
	attrs := NewClusterAttributes("test").
		WithRuntimeVersion("13.3.x-scala2.12").
		WithNodeType("Standard_D3_v2", "").
		WithAutoScale(2, 8).
		WithAutoTermination(30).
		WithRuntimeEngine(RuntimeEnginePhoton).
		WithClusterLogConf("dbfs:/logs")
	buf, err := json.Marshal(attrs)
	c.Assert(err, check.IsNil)
	c.Check(string(buf), check.Equals, `{"cluster_name":"test","autoscale":{"min_workers":2,"max_workers":8},"spark_version":"13.3.x-scala2.12","runtime_engine":"PHOTON","node_type_id":"Standard_D3_v2","cluster_log_conf":{"dbfs":{"destination":"dbfs:/logs"}},"autotermination_minutes":30}`)

	attrs.WithNumberOfWorkers(0)
	c.Check(attrs.AutoScale, check.IsNil)
	buf, err = json.Marshal(attrs)
	c.Assert(err, check.IsNil)
	c.Check(string(buf), check.Matches, `.*"num_workers":0.*`)
}

func (s *clusterSuite) TestClusterModes(c *check.C) {
	attrs := NewClusterAttributes("hc").WithClusterMode(ClusterModeHighConcurrency)
	c.Check(attrs.CustomTags, check.DeepEquals, map[string]string{"ResourceClass": "Serverless"})
	c.Check(attrs.SparkConfiguration, check.DeepEquals, map[string]string{
		"spark.databricks.cluster.profile":       "serverless",
		"spark.databricks.repl.allowedLanguages": "sql,python,r",
	})

	attrs.WithTableAccessControl(true)
	c.Check(attrs.SparkConfiguration["spark.databricks.acl.dfAclsEnabled"], check.Equals, "true")
	c.Check(attrs.SparkConfiguration["spark.databricks.repl.allowedLanguages"], check.Equals, "python,sql")

	attrs.WithTableAccessControl(false).WithClusterMode(ClusterModeStandard)
	c.Check(attrs.CustomTags, check.HasLen, 0)
	c.Check(attrs.SparkConfiguration, check.HasLen, 0)

	attrs = NewClusterAttributes("single").WithAutoScale(1, 3).WithClusterMode(ClusterModeSingleNode)
	c.Check(attrs.CustomTags["ResourceClass"], check.Equals, "SingleNode")
	c.Check(attrs.SparkConfiguration["spark.databricks.cluster.profile"], check.Equals, "singleNode")
	c.Check(attrs.SparkConfiguration["spark.master"], check.Equals, "local[*]")
	c.Check(*attrs.NumberOfWorkers, check.Equals, int32(0))
	c.Check(attrs.AutoScale, check.IsNil)
	_, ok := attrs.SparkConfiguration["spark.databricks.repl.allowedLanguages"]
	c.Check(ok, check.Equals, false)
}

func (s *clusterSuite) TestClusterStateSettled(c *check.C) {
	c.Check(ClusterStateRunning.Settled(), check.Equals, true)
	c.Check(ClusterStateTerminated.Settled(), check.Equals, true)
	c.Check(ClusterStatePending.Settled(), check.Equals, false)
	c.Check(ClusterStateResizing.Settled(), check.Equals, false)
}

func (s *clusterSuite) TestCreate(c *check.C) {
	s.stub.Respond("POST", "clusters/create", 200, `{"cluster_id":"1234-567890-abc123"}`)
	resp, err := s.client.ClusterCreate(context.Background(), *NewClusterAttributes("test").WithNumberOfWorkers(1))
	c.Assert(err, check.IsNil)
	c.Check(resp.ClusterID, check.Equals, "1234-567890-abc123")

	req := s.stub.LastRequest()
	c.Check(req.Header.Get("Authorization"), check.Equals, "Bearer dapitest")
	var sent map[string]interface{}
	c.Assert(req.DecodeBody(&sent), check.IsNil)
	c.Check(sent, check.DeepEquals, map[string]interface{}{"cluster_name": "test", "num_workers": 1.0})
}

func (s *clusterSuite) TestResize(c *check.C) {
	s.stub.Respond("POST", "clusters/resize", 200, `{}`)
	err := s.client.ClusterResize(context.Background(), ClusterResizeOptions{ClusterID: "x", AutoScale: &AutoScale{MinWorkers: 1, MaxWorkers: 4}})
	c.Check(err, check.IsNil)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"cluster_id":"x","autoscale":{"min_workers":1,"max_workers":4}}`)
}

func (s *clusterSuite) TestList(c *check.C) {
	s.stub.Respond("GET", "clusters/list", 200, `{"clusters":[
		{"cluster_id":"a","cluster_name":"one","state":"TERMINATED","termination_reason":{"code":"INACTIVITY","parameters":{"inactivity_duration_min":"120"}}},
		{"cluster_id":"b","cluster_name":"two","state":"RUNNING","autoscale":{"min_workers":2,"max_workers":8},"default_tags":{"Vendor":"Databricks"}}]}`)
	list, err := s.client.ClusterList(context.Background())
	c.Assert(err, check.IsNil)
	c.Assert(list.Clusters, check.HasLen, 2)
	c.Check(list.Clusters[0].TerminationReason.Code, check.Equals, "INACTIVITY")
	c.Check(list.Clusters[1].AutoScale.MaxWorkers, check.Equals, int32(8))
	c.Check(list.Clusters[1].DefaultTags["Vendor"], check.Equals, "Databricks")
}

func (s *clusterSuite) TestEventsPaging(c *check.C) {
	s.stub.Handle("POST", "clusters/events", func(req databrickstest.RecordedRequest) databrickstest.StubResponse {
		var opts ClusterEventsOptions
		c.Check(req.DecodeBody(&opts), check.IsNil)
		if opts.Offset == 0 {
			return databrickstest.StubResponse{Body: `{"events":[{"cluster_id":"x","timestamp":1,"type":"CREATING","details":{}}],
				"next_page":{"cluster_id":"x","offset":1,"limit":1},"total_count":2}`}
		}
		return databrickstest.StubResponse{Body: `{"events":[{"cluster_id":"x","timestamp":2,"type":"RUNNING","details":{"current_num_workers":2}}],"total_count":2}`}
	})
	var events []ClusterEvent
	opts := ClusterEventsOptions{ClusterID: "x", Limit: 1}
	for {
		resp, err := s.client.ClusterEvents(context.Background(), opts)
		c.Assert(err, check.IsNil)
		events = append(events, resp.Events...)
		if !resp.HasNextPage() {
			break
		}
		opts = *resp.NextPage
	}
	c.Assert(events, check.HasLen, 2)
	c.Check(events[0].Type, check.Equals, ClusterEventCreating)
	c.Check(events[1].Details.CurrentNumberOfWorkers, check.Equals, int32(2))
	c.Check(s.stub.Requests(), check.HasLen, 2)
}

func (s *clusterSuite) TestNodeTypes(c *check.C) {
	s.stub.Respond("GET", "clusters/list-node-types", 200, `{"node_types":[{"node_type_id":"Standard_DS3_v2","memory_mb":14336,"num_cores":4,"description":"Standard_DS3_v2","category":"General Purpose","node_instance_type":{"instance_type_id":"Standard_DS3_v2","local_disks":1,"local_disk_size_gb":28}}]}`)
	list, err := s.client.ClusterListNodeTypes(context.Background())
	c.Assert(err, check.IsNil)
	c.Assert(list.NodeTypes, check.HasLen, 1)
	c.Check(list.NodeTypes[0].NumCores, check.Equals, float32(4))
	c.Check(list.NodeTypes[0].NodeInstanceType.LocalDiskSizeGB, check.Equals, int32(28))
}

func (s *clusterSuite) TestErrorResponse(c *check.C) {
	s.stub.Respond("POST", "clusters/permanent-delete", 400, `{"error_code":"INVALID_STATE","message":"Cluster x is running"}`)
	err := s.client.ClusterPermanentDelete(context.Background(), ClusterIDOptions{ClusterID: "x"})
	c.Assert(err, check.FitsTypeOf, &TransactionError{})
	c.Check(err.(*TransactionError).ErrorCode, check.Equals, "INVALID_STATE")
	c.Check(err.(*TransactionError).HTTPStatus(), check.Equals, 400)
}
