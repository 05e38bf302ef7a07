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

var _ = check.Suite(&jobSuite{})

type jobSuite struct {
	stub   *databrickstest.APIStub
	client *Client
}

func (s *jobSuite) SetUpTest(c *check.C) {
	s.stub = databrickstest.NewAPIStub()
	s.client = &Client{Scheme: "http", APIHost: s.stub.Host(), AuthToken: "dapitest"}
}

func (s *jobSuite) TearDownTest(c *check.C) {
	s.stub.Close()
}

func (s *jobSuite) TestNotebookJobSettings(c *check.C) {
	js := NewNotebookJobSettings("nightly", "/Users/me/etl", map[string]string{"date": "today"}).
		WithNewCluster(NewClusterAttributes("").WithRuntimeVersion("13.3.x-scala2.12").WithNodeType("Standard_D3_v2", "").WithNumberOfWorkers(2)).
		WithLibraries(MavenLibrary{Maven: MavenLibrarySpec{Coordinates: "org.jsoup:jsoup:1.7.2"}}).
		WithSchedule(&CronSchedule{QuartzCronExpression: "0 15 22 ? * *", TimezoneID: "UTC"})
	js.MaxRetries = 1
	buf, err := json.Marshal(js)
	c.Assert(err, check.IsNil)
	c.Check(string(buf), check.Equals, `{"new_cluster":{"num_workers":2,"spark_version":"13.3.x-scala2.12","node_type_id":"Standard_D3_v2"},`+
		`"libraries":[{"maven":{"coordinates":"org.jsoup:jsoup:1.7.2"}}],`+
		`"name":"nightly","notebook_task":{"notebook_path":"/Users/me/etl","base_parameters":{"date":"today"}},`+
		`"max_retries":1,"schedule":{"quartz_cron_expression":"0 15 22 ? * *","timezone_id":"UTC"}}`)

	var decoded JobSettings
	c.Assert(json.Unmarshal(buf, &decoded), check.IsNil)
	c.Check(decoded.Libraries, check.DeepEquals, js.Libraries)
	c.Check(decoded.NotebookTask, check.DeepEquals, js.NotebookTask)

	js.WithExistingCluster("0530-210517-viced348")
	c.Check(js.NewCluster, check.IsNil)
	c.Check(js.ExistingClusterID, check.Equals, "0530-210517-viced348")
}

func (s *jobSuite) TestParseSparkSubmitParameters(c *check.C) {
	params, err := ParseSparkSubmitParameters(`--class org.apache.spark.examples.SparkPi --conf "spark.driver.extraJavaOptions=-Dx=1 -Dy=2" dbfs:/docs/sparkpi.jar 10`)
	c.Check(err, check.IsNil)
	c.Check(params, check.DeepEquals, []string{
		"--class", "org.apache.spark.examples.SparkPi",
		"--conf", "spark.driver.extraJavaOptions=-Dx=1 -Dy=2",
		"dbfs:/docs/sparkpi.jar", "10",
	})

	_, err = ParseSparkSubmitParameters("  ")
	c.Check(err, check.ErrorMatches, `.*empty command line`)
	_, err = ParseSparkSubmitParameters(`--class "unterminated`)
	c.Check(err, check.NotNil)

	js, err := NewSparkSubmitJobSettings("pi", "--class Pi dbfs:/pi.jar")
	c.Assert(err, check.IsNil)
	c.Check(js.SparkSubmitTask.Parameters, check.DeepEquals, []string{"--class", "Pi", "dbfs:/pi.jar"})
}

func (s *jobSuite) TestIdempotencyToken(c *check.C) {
	a, err := NewIdempotencyToken()
	c.Check(err, check.IsNil)
	b, err := NewIdempotencyToken()
	c.Check(err, check.IsNil)
	c.Check(a, check.Matches, `[0-9a-z]{36}`)
	c.Check(a, check.Not(check.Equals), b)
}

func (s *jobSuite) TestRunLifeCycleState(c *check.C) {
	for state, terminal := range map[RunLifeCycleState]bool{
		RunLifeCycleStatePending:       false,
		RunLifeCycleStateRunning:       false,
		RunLifeCycleStateTerminating:   false,
		RunLifeCycleStateTerminated:    true,
		RunLifeCycleStateSkipped:       true,
		RunLifeCycleStateInternalError: true,
	} {
		c.Check(state.Terminal(), check.Equals, terminal, check.Commentf("%s", state))
	}
}

func (s *jobSuite) TestCreateAndRunNow(c *check.C) {
	s.stub.Respond("POST", "jobs/create", 200, `{"job_id":42}`)
	s.stub.Respond("POST", "jobs/run-now", 200, `{"run_id":4242,"number_in_job":1}`)
	resp, err := s.client.JobCreate(context.Background(), *NewNotebookJobSettings("j", "/nb", nil).WithExistingCluster("x"))
	c.Assert(err, check.IsNil)
	c.Check(resp.JobID, check.Equals, int64(42))
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"existing_cluster_id":"x","name":"j","notebook_task":{"notebook_path":"/nb"}}`)

	run, err := s.client.JobRunNow(context.Background(), JobRunNowOptions{
		JobID:         42,
		RunParameters: RunParameters{NotebookParams: map[string]string{"a": "b"}},
	})
	c.Assert(err, check.IsNil)
	c.Check(run.RunID, check.Equals, int64(4242))
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"job_id":42,"notebook_params":{"a":"b"}}`)
}

func (s *jobSuite) TestUpdate(c *check.C) {
	s.stub.Respond("POST", "jobs/update", 200, `{}`)
	err := s.client.JobUpdate(context.Background(), JobUpdateOptions{
		JobID:          42,
		NewSettings:    &JobSettings{MaxConcurrentRuns: 2},
		FieldsToRemove: []string{"libraries", "schedule"},
	})
	c.Check(err, check.IsNil)
	c.Check(string(s.stub.LastRequest().Body), check.Equals, `{"job_id":42,"new_settings":{"max_concurrent_runs":2},"fields_to_remove":["libraries","schedule"]}`)
}

func (s *jobSuite) TestRunsSubmitAndGet(c *check.C) {
	s.stub.Respond("POST", "jobs/runs/submit", 200, `{"run_id":7}`)
	s.stub.Respond("GET", "jobs/runs/get", 200, `{"job_id":1,"run_id":7,"state":{"life_cycle_state":"TERMINATED","result_state":"SUCCESS","state_message":""},
		"cluster_spec":{"existing_cluster_id":"x","libraries":[{"egg":"dbfs:/x.egg"}]},"start_time":1591222922000,"run_page_url":"https://example/run/7"}`)
	token, err := NewIdempotencyToken()
	c.Assert(err, check.IsNil)
	js, err := NewSparkSubmitJobSettings("pi", "--class Pi dbfs:/pi.jar")
	c.Assert(err, check.IsNil)
	js.WithExistingCluster("x")
	id, err := s.client.JobRunsSubmit(context.Background(), JobRunsSubmitOptions{JobSettings: *js, IdempotencyToken: token})
	c.Assert(err, check.IsNil)
	c.Check(id.RunID, check.Equals, int64(7))
	var sent map[string]interface{}
	c.Assert(s.stub.LastRequest().DecodeBody(&sent), check.IsNil)
	c.Check(sent["idempotency_token"], check.Equals, token)
	c.Check(sent["existing_cluster_id"], check.Equals, "x")

	run, err := s.client.JobRunsGet(context.Background(), RunIDOptions{RunID: 7})
	c.Assert(err, check.IsNil)
	c.Check(s.stub.LastRequest().Query.Get("run_id"), check.Equals, "7")
	c.Check(run.State.LifeCycleState.Terminal(), check.Equals, true)
	c.Check(run.State.ResultState, check.Equals, RunResultStateSuccess)
	c.Check(run.ClusterSpec.Libraries, check.DeepEquals, Libraries{EggLibrary{Egg: "dbfs:/x.egg"}})
}

func (s *jobSuite) TestRunsListQuery(c *check.C) {
	s.stub.Respond("GET", "jobs/runs/list", 200, `{"runs":[{"job_id":1,"run_id":2,"state":{"life_cycle_state":"RUNNING","state_message":"In run"}}],"has_more":true}`)
	list, err := s.client.JobRunsList(context.Background(), JobRunsListOptions{JobID: 1, ActiveOnly: true, Limit: 25})
	c.Assert(err, check.IsNil)
	c.Check(list.HasMore, check.Equals, true)
	c.Check(list.Runs[0].State.LifeCycleState, check.Equals, RunLifeCycleStateRunning)
	q := s.stub.LastRequest().Query
	c.Check(q.Get("job_id"), check.Equals, "1")
	c.Check(q.Get("active_only"), check.Equals, "true")
	c.Check(q.Get("limit"), check.Equals, "25")
	c.Check(q.Has("completed_only"), check.Equals, false)
}

func (s *jobSuite) TestRunsGetOutput(c *check.C) {
	s.stub.Respond("GET", "jobs/runs/get-output", 200, `{"notebook_output":{"result":"42","truncated":false},"metadata":{"job_id":1,"run_id":2,"state":{"life_cycle_state":"TERMINATED","result_state":"FAILED","state_message":"boom"}},"error":"boom"}`)
	out, err := s.client.JobRunsGetOutput(context.Background(), RunIDOptions{RunID: 2})
	c.Assert(err, check.IsNil)
	c.Check(out.NotebookOutput.Result, check.Equals, "42")
	c.Check(out.Error, check.Equals, "boom")
	c.Check(out.Metadata.State.ResultState, check.Equals, RunResultStateFailed)
}
