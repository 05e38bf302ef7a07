// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"context"

	"github.com/Azure/go-autorest/autorest/to"
)

// ClusterState is a string corresponding to a valid cluster state.
type ClusterState string

const (
	ClusterStatePending     = ClusterState("PENDING")
	ClusterStateRunning     = ClusterState("RUNNING")
	ClusterStateRestarting  = ClusterState("RESTARTING")
	ClusterStateResizing    = ClusterState("RESIZING")
	ClusterStateTerminating = ClusterState("TERMINATING")
	ClusterStateTerminated  = ClusterState("TERMINATED")
	ClusterStateError       = ClusterState("ERROR")
	ClusterStateUnknown     = ClusterState("UNKNOWN")
)

// Settled reports whether a cluster in this state will stay there
// without further requests.
func (s ClusterState) Settled() bool {
	switch s {
	case ClusterStateRunning, ClusterStateTerminated, ClusterStateError:
		return true
	default:
		return false
	}
}

// ClusterMode selects a combination of spark conf and tags that the
// workspace UI calls "cluster mode". It is not sent to the server
// itself.
type ClusterMode int

const (
	// Recommended for single-user clusters. Can run SQL, Python,
	// R, and Scala workloads.
	ClusterModeStandard ClusterMode = iota
	// Optimized to run concurrent SQL, Python, and R workloads. Does
	// not support Scala.
	ClusterModeHighConcurrency
	// A Spark driver and no workers.
	ClusterModeSingleNode
)

type RuntimeEngine string

const (
	RuntimeEngineNull     = RuntimeEngine("NULL")
	RuntimeEngineStandard = RuntimeEngine("STANDARD")
	RuntimeEnginePhoton   = RuntimeEngine("PHOTON")
)

// Spark conf and tag keys managed by the With* builders.
const (
	sparkConfTableACL    = "spark.databricks.acl.dfAclsEnabled"
	sparkConfReplLangs   = "spark.databricks.repl.allowedLanguages"
	sparkConfProfile     = "spark.databricks.cluster.profile"
	sparkConfMaster      = "spark.master"
	customTagResourceCls = "ResourceClass"
)

type AutoScale struct {
	MinWorkers int32 `json:"min_workers"`
	MaxWorkers int32 `json:"max_workers"`
}

type DockerBasicAuth struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type DockerImage struct {
	URL       string           `json:"url"`
	BasicAuth *DockerBasicAuth `json:"basic_auth,omitempty"`
}

type DbfsStorageInfo struct {
	Destination string `json:"destination"`
}

type ClusterLogConf struct {
	Dbfs *DbfsStorageInfo `json:"dbfs,omitempty"`
}

type InitScriptInfo struct {
	Dbfs *DbfsStorageInfo `json:"dbfs,omitempty"`
}

type AzureAttributes struct {
	FirstOnDemand   int32   `json:"first_on_demand,omitempty"`
	Availability    string  `json:"availability,omitempty"`
	SpotBidMaxPrice float64 `json:"spot_bid_max_price,omitempty"`
}

// ClusterAttributes are the settings given when creating or editing
// a cluster.
type ClusterAttributes struct {
	ClusterID                 string            `json:"cluster_id,omitempty"`
	ClusterName               string            `json:"cluster_name,omitempty"`
	NumberOfWorkers           *int32            `json:"num_workers,omitempty"`
	AutoScale                 *AutoScale        `json:"autoscale,omitempty"`
	RuntimeVersion            string            `json:"spark_version,omitempty"`
	RuntimeEngine             RuntimeEngine     `json:"runtime_engine,omitempty"`
	SparkConfiguration        map[string]string `json:"spark_conf,omitempty"`
	AzureAttributes           *AzureAttributes  `json:"azure_attributes,omitempty"`
	NodeTypeID                string            `json:"node_type_id,omitempty"`
	DriverNodeTypeID          string            `json:"driver_node_type_id,omitempty"`
	SSHPublicKeys             []string          `json:"ssh_public_keys,omitempty"`
	CustomTags                map[string]string `json:"custom_tags,omitempty"`
	ClusterLogConfiguration   *ClusterLogConf   `json:"cluster_log_conf,omitempty"`
	InitScripts               []InitScriptInfo  `json:"init_scripts,omitempty"`
	DockerImage               *DockerImage      `json:"docker_image,omitempty"`
	SparkEnvironmentVariables map[string]string `json:"spark_env_vars,omitempty"`
	AutoTerminationMinutes    int32             `json:"autotermination_minutes,omitempty"`
	EnableElasticDisk         bool              `json:"enable_elastic_disk,omitempty"`
	InstancePoolID            string            `json:"instance_pool_id,omitempty"`
	DriverInstancePoolID      string            `json:"driver_instance_pool_id,omitempty"`
	PolicyID                  string            `json:"policy_id,omitempty"`
	SingleUserName            string            `json:"single_user_name,omitempty"`
	DataSecurityMode          string            `json:"data_security_mode,omitempty"`

	mode     ClusterMode
	tableACL bool
}

// NewClusterAttributes returns attributes for a new cluster with the
// given name, ready for the With* builders.
func NewClusterAttributes(name string) *ClusterAttributes {
	return &ClusterAttributes{ClusterName: name}
}

// WithAutoScale sets the worker range and clears any fixed number
// of workers.
func (ca *ClusterAttributes) WithAutoScale(minWorkers, maxWorkers int32) *ClusterAttributes {
	ca.AutoScale = &AutoScale{MinWorkers: minWorkers, MaxWorkers: maxWorkers}
	ca.NumberOfWorkers = nil
	return ca
}

// WithNumberOfWorkers sets a fixed number of workers and clears any
// autoscale range.
func (ca *ClusterAttributes) WithNumberOfWorkers(n int32) *ClusterAttributes {
	ca.NumberOfWorkers = to.Int32Ptr(n)
	ca.AutoScale = nil
	return ca
}

// WithTableAccessControl enables or disables table access control,
// which restricts the cluster to the SQL and DataFrame APIs.
func (ca *ClusterAttributes) WithTableAccessControl(enable bool) *ClusterAttributes {
	ca.tableACL = enable
	if ca.SparkConfiguration == nil {
		ca.SparkConfiguration = map[string]string{}
	}
	if enable {
		ca.SparkConfiguration[sparkConfTableACL] = "true"
	} else {
		delete(ca.SparkConfiguration, sparkConfTableACL)
	}
	ca.updateReplLanguages()
	return ca
}

// WithClusterMode sets the spark conf and custom tags that select the
// given cluster mode. Single node mode also sets the number of
// workers to 0.
func (ca *ClusterAttributes) WithClusterMode(mode ClusterMode) *ClusterAttributes {
	ca.mode = mode
	if ca.CustomTags == nil {
		ca.CustomTags = map[string]string{}
	}
	if ca.SparkConfiguration == nil {
		ca.SparkConfiguration = map[string]string{}
	}
	switch mode {
	case ClusterModeHighConcurrency:
		ca.CustomTags[customTagResourceCls] = "Serverless"
		ca.SparkConfiguration[sparkConfProfile] = "serverless"
		delete(ca.SparkConfiguration, sparkConfMaster)
	case ClusterModeSingleNode:
		ca.CustomTags[customTagResourceCls] = "SingleNode"
		ca.SparkConfiguration[sparkConfProfile] = "singleNode"
		ca.SparkConfiguration[sparkConfMaster] = "local[*]"
		ca.WithNumberOfWorkers(0)
	default:
		delete(ca.CustomTags, customTagResourceCls)
		delete(ca.SparkConfiguration, sparkConfProfile)
		delete(ca.SparkConfiguration, sparkConfMaster)
	}
	ca.updateReplLanguages()
	return ca
}

// allowedReplLanguages returns the REPL language restriction implied
// by the table ACL setting and cluster mode, or "" for none.
func allowedReplLanguages(tableACL bool, mode ClusterMode) string {
	switch {
	case tableACL:
		return "python,sql"
	case mode == ClusterModeHighConcurrency:
		return "sql,python,r"
	default:
		return ""
	}
}

func (ca *ClusterAttributes) updateReplLanguages() {
	if langs := allowedReplLanguages(ca.tableACL, ca.mode); langs == "" {
		delete(ca.SparkConfiguration, sparkConfReplLangs)
	} else {
		ca.SparkConfiguration[sparkConfReplLangs] = langs
	}
}

// WithAutoTermination sets the idle time after which the cluster is
// terminated. Zero disables automatic termination.
func (ca *ClusterAttributes) WithAutoTermination(minutes int32) *ClusterAttributes {
	ca.AutoTerminationMinutes = minutes
	return ca
}

func (ca *ClusterAttributes) WithRuntimeVersion(version string) *ClusterAttributes {
	ca.RuntimeVersion = version
	return ca
}

// WithRuntimeEngine selects the Photon engine on clusters that
// support it. Some clouds ignore this and use Photon-specific runtime
// versions instead.
func (ca *ClusterAttributes) WithRuntimeEngine(engine RuntimeEngine) *ClusterAttributes {
	ca.RuntimeEngine = engine
	return ca
}

// WithNodeType sets the worker and driver node types. An empty
// driverNodeType means "same as workers".
func (ca *ClusterAttributes) WithNodeType(workerNodeType, driverNodeType string) *ClusterAttributes {
	ca.NodeTypeID = workerNodeType
	ca.DriverNodeTypeID = driverNodeType
	return ca
}

// WithClusterLogConf delivers cluster logs to the given DBFS
// destination, e.g., "dbfs:/logs".
func (ca *ClusterAttributes) WithClusterLogConf(dbfsDestination string) *ClusterAttributes {
	ca.ClusterLogConfiguration = &ClusterLogConf{Dbfs: &DbfsStorageInfo{Destination: dbfsDestination}}
	return ca
}

type SparkNode struct {
	PrivateIP      string `json:"private_ip,omitempty"`
	PublicDNS      string `json:"public_dns,omitempty"`
	NodeID         string `json:"node_id,omitempty"`
	InstanceID     string `json:"instance_id,omitempty"`
	StartTimestamp Millis `json:"start_timestamp,omitempty"`
	HostPrivateIP  string `json:"host_private_ip,omitempty"`
}

type TerminationReason struct {
	Code       string            `json:"code,omitempty"`
	Type       string            `json:"type,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type LogSyncStatus struct {
	LastAttempted Millis `json:"last_attempted,omitempty"`
	LastException string `json:"last_exception,omitempty"`
}

// ClusterInfo is the metadata about a single cluster, as returned by
// ClusterGet and ClusterList.
type ClusterInfo struct {
	ClusterAttributes

	SparkContextID    int64              `json:"spark_context_id,omitempty"`
	CreatorUserName   string             `json:"creator_user_name,omitempty"`
	Driver            *SparkNode         `json:"driver,omitempty"`
	Executors         []SparkNode        `json:"executors,omitempty"`
	JdbcPort          int32              `json:"jdbc_port,omitempty"`
	State             ClusterState       `json:"state,omitempty"`
	StateMessage      string             `json:"state_message,omitempty"`
	StartTime         Millis             `json:"start_time,omitempty"`
	TerminatedTime    Millis             `json:"terminated_time,omitempty"`
	LastStateLossTime Millis             `json:"last_state_loss_time,omitempty"`
	LastActivityTime  Millis             `json:"last_activity_time,omitempty"`
	ClusterMemoryMb   int64              `json:"cluster_memory_mb,omitempty"`
	ClusterCores      float32            `json:"cluster_cores,omitempty"`
	DefaultTags       map[string]string  `json:"default_tags,omitempty"`
	ClusterLogStatus  *LogSyncStatus     `json:"cluster_log_status,omitempty"`
	TerminationReason *TerminationReason `json:"termination_reason,omitempty"`
	PinnedByUserName  string             `json:"pinned_by_user_name,omitempty"`
}

type ClusterList struct {
	Clusters []ClusterInfo `json:"clusters"`
}

type ClusterIDOptions struct {
	ClusterID string `json:"cluster_id"`
}

type ClusterCreateResponse struct {
	ClusterID string `json:"cluster_id"`
}

// ClusterResizeOptions gives either NumberOfWorkers or AutoScale.
type ClusterResizeOptions struct {
	ClusterID       string     `json:"cluster_id"`
	NumberOfWorkers *int32     `json:"num_workers,omitempty"`
	AutoScale       *AutoScale `json:"autoscale,omitempty"`
}

type NodeInstanceType struct {
	InstanceTypeID      string `json:"instance_type_id"`
	LocalDisks          int32  `json:"local_disks,omitempty"`
	LocalDiskSizeGB     int32  `json:"local_disk_size_gb,omitempty"`
	LocalNVMeDisks      int32  `json:"local_nvme_disks,omitempty"`
	LocalNVMeDiskSizeGB int32  `json:"local_nvme_disk_size_gb,omitempty"`
}

type ClusterCloudProviderNodeInfo struct {
	Status             []string `json:"status,omitempty"`
	AvailableCoreQuota float32  `json:"available_core_quota,omitempty"`
	TotalCoreQuota     float32  `json:"total_core_quota,omitempty"`
}

type NodeType struct {
	NodeTypeID                   string                        `json:"node_type_id"`
	MemoryMb                     int64                         `json:"memory_mb"`
	NumCores                     float32                       `json:"num_cores"`
	Description                  string                        `json:"description,omitempty"`
	InstanceTypeID               string                        `json:"instance_type_id,omitempty"`
	IsDeprecated                 bool                          `json:"is_deprecated,omitempty"`
	Category                     string                        `json:"category,omitempty"`
	NodeInstanceType             *NodeInstanceType             `json:"node_instance_type,omitempty"`
	ClusterCloudProviderNodeInfo *ClusterCloudProviderNodeInfo `json:"node_info,omitempty"`
	PhotonWorkerCapable          bool                          `json:"photon_worker_capable,omitempty"`
	PhotonDriverCapable          bool                          `json:"photon_driver_capable,omitempty"`
}

type NodeTypeList struct {
	NodeTypes []NodeType `json:"node_types"`
}

type SparkVersion struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type SparkVersionList struct {
	Versions []SparkVersion `json:"versions"`
}

type ClusterEventType string

const (
	ClusterEventCreating               = ClusterEventType("CREATING")
	ClusterEventDidNotExpandDisk       = ClusterEventType("DID_NOT_EXPAND_DISK")
	ClusterEventExpandedDisk           = ClusterEventType("EXPANDED_DISK")
	ClusterEventFailedToExpandDisk     = ClusterEventType("FAILED_TO_EXPAND_DISK")
	ClusterEventInitScriptsStarted     = ClusterEventType("INIT_SCRIPTS_STARTED")
	ClusterEventInitScriptsFinished    = ClusterEventType("INIT_SCRIPTS_FINISHED")
	ClusterEventStarting               = ClusterEventType("STARTING")
	ClusterEventRestarting             = ClusterEventType("RESTARTING")
	ClusterEventTerminating            = ClusterEventType("TERMINATING")
	ClusterEventEdited                 = ClusterEventType("EDITED")
	ClusterEventRunning                = ClusterEventType("RUNNING")
	ClusterEventResizing               = ClusterEventType("RESIZING")
	ClusterEventUpsizeCompleted        = ClusterEventType("UPSIZE_COMPLETED")
	ClusterEventNodesLost              = ClusterEventType("NODES_LOST")
	ClusterEventDriverHealthy          = ClusterEventType("DRIVER_HEALTHY")
	ClusterEventDriverUnavailable      = ClusterEventType("DRIVER_UNAVAILABLE")
	ClusterEventSparkException         = ClusterEventType("SPARK_EXCEPTION")
	ClusterEventDriverNotResponding    = ClusterEventType("DRIVER_NOT_RESPONDING")
	ClusterEventDbfsDown               = ClusterEventType("DBFS_DOWN")
	ClusterEventMetastoreDown          = ClusterEventType("METASTORE_DOWN")
	ClusterEventAutoscalingStatsReport = ClusterEventType("AUTOSCALING_STATS_REPORT")
	ClusterEventNodeBlacklisted        = ClusterEventType("NODE_BLACKLISTED")
	ClusterEventPinned                 = ClusterEventType("PINNED")
	ClusterEventUnpinned               = ClusterEventType("UNPINNED")
)

type ClusterSize struct {
	NumberOfWorkers *int32     `json:"num_workers,omitempty"`
	AutoScale       *AutoScale `json:"autoscale,omitempty"`
}

type EventDetails struct {
	CurrentNumberOfWorkers int32              `json:"current_num_workers,omitempty"`
	TargetNumberOfWorkers  int32              `json:"target_num_workers,omitempty"`
	PreviousAttributes     *ClusterAttributes `json:"previous_attributes,omitempty"`
	Attributes             *ClusterAttributes `json:"attributes,omitempty"`
	PreviousClusterSize    *ClusterSize       `json:"previous_cluster_size,omitempty"`
	ClusterSize            *ClusterSize       `json:"cluster_size,omitempty"`
	Cause                  string             `json:"cause,omitempty"`
	Reason                 *TerminationReason `json:"reason,omitempty"`
	User                   string             `json:"user,omitempty"`
}

type ClusterEvent struct {
	ClusterID string           `json:"cluster_id"`
	Timestamp Millis           `json:"timestamp,omitempty"`
	Type      ClusterEventType `json:"type"`
	Details   EventDetails     `json:"details"`
}

type ListOrder string

const (
	ListOrderDesc = ListOrder("DESC")
	ListOrderAsc  = ListOrder("ASC")
)

// ClusterEventsOptions selects a page of cluster events. The NextPage
// field of a response is a ready-made ClusterEventsOptions for the
// following page.
type ClusterEventsOptions struct {
	ClusterID  string             `json:"cluster_id"`
	StartTime  Millis             `json:"start_time,omitempty"`
	EndTime    Millis             `json:"end_time,omitempty"`
	Order      ListOrder          `json:"order,omitempty"`
	EventTypes []ClusterEventType `json:"event_types,omitempty"`
	Offset     int64              `json:"offset,omitempty"`
	Limit      int64              `json:"limit,omitempty"`
}

type ClusterEventsResponse struct {
	Events     []ClusterEvent        `json:"events"`
	NextPage   *ClusterEventsOptions `json:"next_page,omitempty"`
	TotalCount int64                 `json:"total_count"`
}

// HasNextPage reports whether there are more events after this page.
func (r ClusterEventsResponse) HasNextPage() bool {
	return r.NextPage != nil
}

// ClusterCreate creates a new cluster and returns its ID. The
// cluster is starting (PENDING) when this returns.
func (c *Client) ClusterCreate(ctx context.Context, attrs ClusterAttributes) (ClusterCreateResponse, error) {
	var resp ClusterCreateResponse
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointClusterCreate.Method, EndpointClusterCreate.Path, attrs)
	return resp, err
}

// ClusterEdit replaces the configuration of a cluster. The cluster
// must be RUNNING or TERMINATED.
func (c *Client) ClusterEdit(ctx context.Context, attrs ClusterAttributes) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointClusterEdit.Method, EndpointClusterEdit.Path, attrs)
}

func (c *Client) ClusterStart(ctx context.Context, options ClusterIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointClusterStart.Method, EndpointClusterStart.Path, options)
}

func (c *Client) ClusterRestart(ctx context.Context, options ClusterIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointClusterRestart.Method, EndpointClusterRestart.Path, options)
}

func (c *Client) ClusterResize(ctx context.Context, options ClusterResizeOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointClusterResize.Method, EndpointClusterResize.Path, options)
}

// ClusterTerminate stops a cluster. Its configuration is kept for 30
// days, so it can be started again.
func (c *Client) ClusterTerminate(ctx context.Context, options ClusterIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointClusterTerminate.Method, EndpointClusterTerminate.Path, options)
}

func (c *Client) ClusterPermanentDelete(ctx context.Context, options ClusterIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointClusterPermanentDelete.Method, EndpointClusterPermanentDelete.Path, options)
}

func (c *Client) ClusterGet(ctx context.Context, options ClusterIDOptions) (ClusterInfo, error) {
	var resp ClusterInfo
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointClusterGet.Method, EndpointClusterGet.Path, options)
	return resp, err
}

func (c *Client) ClusterList(ctx context.Context) (ClusterList, error) {
	var resp ClusterList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointClusterList.Method, EndpointClusterList.Path, nil)
	return resp, err
}

func (c *Client) ClusterPin(ctx context.Context, options ClusterIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointClusterPin.Method, EndpointClusterPin.Path, options)
}

func (c *Client) ClusterUnpin(ctx context.Context, options ClusterIDOptions) error {
	return c.RequestAndDecodeContext(ctx, nil, EndpointClusterUnpin.Method, EndpointClusterUnpin.Path, options)
}

func (c *Client) ClusterListNodeTypes(ctx context.Context) (NodeTypeList, error) {
	var resp NodeTypeList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointClusterListNodeTypes.Method, EndpointClusterListNodeTypes.Path, nil)
	return resp, err
}

func (c *Client) ClusterListSparkVersions(ctx context.Context) (SparkVersionList, error) {
	var resp SparkVersionList
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointClusterListSparkVersions.Method, EndpointClusterListSparkVersions.Path, nil)
	return resp, err
}

// ClusterEvents returns one page of events. Pass resp.NextPage to get
// the following page.
func (c *Client) ClusterEvents(ctx context.Context, options ClusterEventsOptions) (ClusterEventsResponse, error) {
	var resp ClusterEventsResponse
	err := c.RequestAndDecodeContext(ctx, &resp, EndpointClusterEvents.Method, EndpointClusterEvents.Path, options)
	return resp, err
}
