// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"
	"fmt"

	"github.com/google/shlex"
	"github.com/jmcvetta/randutil"
)

type NotebookTask struct {
	NotebookPath   string            `json:"notebook_path"`
	BaseParameters map[string]string `json:"base_parameters,omitempty"`
}

type SparkJarTask struct {
	MainClassName string   `json:"main_class_name"`
	Parameters    []string `json:"parameters,omitempty"`
}

type SparkPythonTask struct {
	PythonFile string   `json:"python_file"`
	Parameters []string `json:"parameters,omitempty"`
}

type SparkSubmitTask struct {
	Parameters []string `json:"parameters"`
}

type JobEmailNotifications struct {
	OnStart               []string `json:"on_start,omitempty"`
	OnSuccess             []string `json:"on_success,omitempty"`
	OnFailure             []string `json:"on_failure,omitempty"`
	NoAlertForSkippedRuns bool     `json:"no_alert_for_skipped_runs,omitempty"`
}

type PauseStatus string

const (
	PauseStatusPaused   = PauseStatus("PAUSED")
	PauseStatusUnpaused = PauseStatus("UNPAUSED")
)

type CronSchedule struct {
	QuartzCronExpression string      `json:"quartz_cron_expression"`
	TimezoneID           string      `json:"timezone_id"`
	PauseStatus          PauseStatus `json:"pause_status,omitempty"`
}

// JobSettings are the settings given when creating, resetting, or
// updating a job, and when submitting a one-time run.
type JobSettings struct {
	ClusterSpec

	Name                   string                 `json:"name,omitempty"`
	NotebookTask           *NotebookTask          `json:"notebook_task,omitempty"`
	SparkJarTask           *SparkJarTask          `json:"spark_jar_task,omitempty"`
	SparkPythonTask        *SparkPythonTask       `json:"spark_python_task,omitempty"`
	SparkSubmitTask        *SparkSubmitTask       `json:"spark_submit_task,omitempty"`
	EmailNotifications     *JobEmailNotifications `json:"email_notifications,omitempty"`
	TimeoutSeconds         int32                  `json:"timeout_seconds,omitempty"`
	MaxRetries             int32                  `json:"max_retries,omitempty"`
	MinRetryIntervalMillis int32                  `json:"min_retry_interval_millis,omitempty"`
	RetryOnTimeout         bool                   `json:"retry_on_timeout,omitempty"`
	Schedule               *CronSchedule          `json:"schedule,omitempty"`
	MaxConcurrentRuns      int32                  `json:"max_concurrent_runs,omitempty"`
}

// NewNotebookJobSettings returns settings for a job that runs the
// given notebook.
func NewNotebookJobSettings(name, notebookPath string, parameters map[string]string) *JobSettings {
	return &JobSettings{
		Name: name,
		NotebookTask: &NotebookTask{
			NotebookPath:   notebookPath,
			BaseParameters: parameters,
		},
	}
}

// NewSparkSubmitJobSettings returns settings for a job that runs
// spark-submit with the given command line, e.g., "--class
// org.example.Main dbfs:/lib/app.jar 10". Arguments are split the way
// a POSIX shell would split them.
func NewSparkSubmitJobSettings(name, commandLine string) (*JobSettings, error) {
	params, err := ParseSparkSubmitParameters(commandLine)
	if err != nil {
		return nil, err
	}
	return &JobSettings{
		Name:            name,
		SparkSubmitTask: &SparkSubmitTask{Parameters: params},
	}, nil
}

// ParseSparkSubmitParameters splits a spark-submit command line into
// separate parameters, honoring shell quoting.
func ParseSparkSubmitParameters(commandLine string) ([]string, error) {
	params, err := shlex.Split(commandLine)
	if err != nil {
		return nil, fmt.Errorf("parsing spark-submit parameters: %w", err)
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("parsing spark-submit parameters: empty command line")
	}
	return params, nil
}

// WithNewCluster runs the job on a new cluster with the given
// attributes, instead of an existing cluster.
func (js *JobSettings) WithNewCluster(attrs *ClusterAttributes) *JobSettings {
	js.NewCluster = attrs
	js.ExistingClusterID = ""
	return js
}

// WithExistingCluster runs the job on an existing cluster.
func (js *JobSettings) WithExistingCluster(clusterID string) *JobSettings {
	js.ExistingClusterID = clusterID
	js.NewCluster = nil
	return js
}

func (js *JobSettings) WithSchedule(schedule *CronSchedule) *JobSettings {
	js.Schedule = schedule
	return js
}

// WithLibraries replaces the job's list of libraries.
func (js *JobSettings) WithLibraries(libs ...Library) *JobSettings {
	js.Libraries = append(Libraries(nil), libs...)
	return js
}

type Job struct {
	JobID           int64       `json:"job_id"`
	CreatorUserName string      `json:"creator_user_name,omitempty"`
	RunAsUserName   string      `json:"run_as_user_name,omitempty"`
	Settings        JobSettings `json:"settings"`
	CreatedTime     Millis      `json:"created_time,omitempty"`
}

type JobList struct {
	Jobs    []Job `json:"jobs"`
	HasMore bool  `json:"has_more,omitempty"`
}

type JobListOptions struct {
	Offset int32 `json:"offset,omitempty"`
	Limit  int32 `json:"limit,omitempty"`
}

type JobIDOptions struct {
	JobID int64 `json:"job_id"`
}

type JobResetOptions struct {
	JobID       int64       `json:"job_id"`
	NewSettings JobSettings `json:"new_settings"`
}

// JobUpdateOptions adds, changes, or removes specific settings of
// an existing job. FieldsToRemove names top-level settings to remove,
// e.g., "libraries".
type JobUpdateOptions struct {
	JobID          int64        `json:"job_id"`
	NewSettings    *JobSettings `json:"new_settings,omitempty"`
	FieldsToRemove []string     `json:"fields_to_remove,omitempty"`
}

type JobCreateResponse struct {
	JobID int64 `json:"job_id"`
}

type RunParameters struct {
	JarParams         []string          `json:"jar_params,omitempty"`
	NotebookParams    map[string]string `json:"notebook_params,omitempty"`
	PythonParams      []string          `json:"python_params,omitempty"`
	SparkSubmitParams []string          `json:"spark_submit_params,omitempty"`
}

type JobRunNowOptions struct {
	JobID int64 `json:"job_id"`
	RunParameters
	IdempotencyToken string `json:"idempotency_token,omitempty"`
}

type RunIdentifier struct {
	RunID       int64 `json:"run_id"`
	NumberInJob int64 `json:"number_in_job,omitempty"`
}

// JobRunsSubmitOptions submits a one-time run. Runs submitted this
// way don't appear in the UI's job list.
type JobRunsSubmitOptions struct {
	JobSettings
	// If a run with this token already exists, its ID is
	// returned instead of starting another run. See
	// NewIdempotencyToken.
	IdempotencyToken string `json:"idempotency_token,omitempty"`
}

// NewIdempotencyToken returns a random token suitable for
// JobRunsSubmitOptions and JobRunNowOptions. Retrying a submission
// with the same token cannot start a second run.
func NewIdempotencyToken() (string, error) {
	return randutil.String(36, "abcdefghijklmnopqrstuvwxyz0123456789")
}

type RunLifeCycleState string

const (
	RunLifeCycleStatePending       = RunLifeCycleState("PENDING")
	RunLifeCycleStateRunning       = RunLifeCycleState("RUNNING")
	RunLifeCycleStateTerminating   = RunLifeCycleState("TERMINATING")
	RunLifeCycleStateTerminated    = RunLifeCycleState("TERMINATED")
	RunLifeCycleStateSkipped       = RunLifeCycleState("SKIPPED")
	RunLifeCycleStateInternalError = RunLifeCycleState("INTERNAL_ERROR")
)

// Terminal reports whether a run in this state has finished.
func (s RunLifeCycleState) Terminal() bool {
	switch s {
	case RunLifeCycleStatePending, RunLifeCycleStateRunning, RunLifeCycleStateTerminating:
		return false
	default:
		return true
	}
}

type RunResultState string

const (
	RunResultStateSuccess  = RunResultState("SUCCESS")
	RunResultStateFailed   = RunResultState("FAILED")
	RunResultStateTimedOut = RunResultState("TIMEDOUT")
	RunResultStateCanceled = RunResultState("CANCELED")
)

type RunState struct {
	LifeCycleState RunLifeCycleState `json:"life_cycle_state"`
	ResultState    RunResultState    `json:"result_state,omitempty"`
	StateMessage   string            `json:"state_message"`
}

type ClusterInstance struct {
	ClusterID      string `json:"cluster_id,omitempty"`
	SparkContextID string `json:"spark_context_id,omitempty"`
}

type Run struct {
	JobID                int64            `json:"job_id"`
	RunID                int64            `json:"run_id"`
	NumberInJob          int64            `json:"number_in_job,omitempty"`
	CreatorUserName      string           `json:"creator_user_name,omitempty"`
	OriginalAttemptRunID int64            `json:"original_attempt_run_id,omitempty"`
	State                RunState         `json:"state"`
	Schedule             *CronSchedule    `json:"schedule,omitempty"`
	ClusterSpec          *ClusterSpec     `json:"cluster_spec,omitempty"`
	ClusterInstance      *ClusterInstance `json:"cluster_instance,omitempty"`
	OverridingParameters *RunParameters   `json:"overriding_parameters,omitempty"`
	StartTime            Millis           `json:"start_time,omitempty"`
	SetupDuration        int64            `json:"setup_duration,omitempty"`
	ExecutionDuration    int64            `json:"execution_duration,omitempty"`
	CleanupDuration      int64            `json:"cleanup_duration,omitempty"`
	EndTime              Millis           `json:"end_time,omitempty"`
	Trigger              string           `json:"trigger,omitempty"`
	RunName              string           `json:"run_name,omitempty"`
	RunPageURL           string           `json:"run_page_url,omitempty"`
	RunType              string           `json:"run_type,omitempty"`
}

type RunList struct {
	Runs    []Run `json:"runs"`
	HasMore bool  `json:"has_more,omitempty"`
}

type JobRunsListOptions struct {
	JobID         int64  `json:"job_id,omitempty"`
	ActiveOnly    bool   `json:"active_only,omitempty"`
	CompletedOnly bool   `json:"completed_only,omitempty"`
	Offset        int32  `json:"offset,omitempty"`
	Limit         int32  `json:"limit,omitempty"`
	RunType       string `json:"run_type,omitempty"`
}

type RunIDOptions struct {
	RunID int64 `json:"run_id"`
}

type ViewsToExport string

const (
	ViewsToExportCode      = ViewsToExport("CODE")
	ViewsToExportDashboard = ViewsToExport("DASHBOARDS")
	ViewsToExportAll       = ViewsToExport("ALL")
)

type JobRunsExportOptions struct {
	RunID         int64         `json:"run_id"`
	ViewsToExport ViewsToExport `json:"views_to_export,omitempty"`
}

type ViewItem struct {
	Content string `json:"content"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

type RunExport struct {
	Views []ViewItem `json:"views"`
}

type NotebookOutput struct {
	Result    string `json:"result,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

type RunOutput struct {
	NotebookOutput *NotebookOutput `json:"notebook_output,omitempty"`
	Logs           string          `json:"logs,omitempty"`
	LogsTruncated  bool            `json:"logs_truncated,omitempty"`
	Error          string          `json:"error,omitempty"`
	ErrorTrace     string          `json:"error_trace,omitempty"`
	Metadata       Run             `json:"metadata"`
}

func (c *Client) JobCreate(ctx context.Context, settings JobSettings) (JobCreateResponse, error) {
	var resp JobCreateResponse
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointJobCreate.Method, EndpointJobCreate.Path, settings)
	return resp, err
}

func (c *Client) JobList(ctx context.Context, options JobListOptions) (JobList, error) {
	var resp JobList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointJobList.Method, EndpointJobList.Path, options)
	return resp, err
}

func (c *Client) JobDelete(ctx context.Context, options JobIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointJobDelete.Method, EndpointJobDelete.Path, options)
}

func (c *Client) JobGet(ctx context.Context, options JobIDOptions) (Job, error) {
	var resp Job
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointJobGet.Method, EndpointJobGet.Path, options)
	return resp, err
}

// JobReset overwrites all of a job's settings.
func (c *Client) JobReset(ctx context.Context, options JobResetOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointJobReset.Method, EndpointJobReset.Path, options)
}

// JobUpdate changes the given settings of a job and leaves the rest
// alone.
func (c *Client) JobUpdate(ctx context.Context, options JobUpdateOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointJobUpdate.Method, EndpointJobUpdate.Path, options)
}

func (c *Client) JobRunNow(ctx context.Context, options JobRunNowOptions) (RunIdentifier, error) {
	var resp RunIdentifier
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointJobRunNow.Method, EndpointJobRunNow.Path, options)
	return resp, err
}

func (c *Client) JobRunsSubmit(ctx context.Context, options JobRunsSubmitOptions) (RunIdentifier, error) {
	var resp RunIdentifier
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointJobRunsSubmit.Method, EndpointJobRunsSubmit.Path, options)
	return resp, err
}

func (c *Client) JobRunsList(ctx context.Context, options JobRunsListOptions) (RunList, error) {
	var resp RunList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointJobRunsList.Method, EndpointJobRunsList.Path, options)
	return resp, err
}

func (c *Client) JobRunsGet(ctx context.Context, options RunIDOptions) (Run, error) {
	var resp Run
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointJobRunsGet.Method, EndpointJobRunsGet.Path, options)
	return resp, err
}

func (c *Client) JobRunsExport(ctx context.Context, options JobRunsExportOptions) (RunExport, error) {
	var resp RunExport
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointJobRunsExport.Method, EndpointJobRunsExport.Path, options)
	return resp, err
}

func (c *Client) JobRunsCancel(ctx context.Context, options RunIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointJobRunsCancel.Method, EndpointJobRunsCancel.Path, options)
}

func (c *Client) JobRunsDelete(ctx context.Context, options RunIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointJobRunsDelete.Method, EndpointJobRunsDelete.Path, options)
}

func (c *Client) JobRunsGetOutput(ctx context.Context, options RunIDOptions) (RunOutput, error) {
	var resp RunOutput
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointJobRunsGetOutput.Method, EndpointJobRunsGetOutput.Path, options)
	return resp, err
}
