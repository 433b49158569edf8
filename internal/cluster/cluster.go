// Package cluster drives the Neptune control plane for a single DB cluster.
package cluster

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/neptune"

	"github.com/wizeline/neptune-scheduler/internal/domain"
)

// Operation names reported in DownstreamError.
const (
	OpStart    = "StartDBCluster"
	OpStop     = "StopDBCluster"
	OpDescribe = "DescribeDBClusters"
)

// neptuneAPI is the subset of the Neptune client the controller calls.
type neptuneAPI interface {
	StartDBCluster(ctx context.Context, params *neptune.StartDBClusterInput, optFns ...func(*neptune.Options)) (*neptune.StartDBClusterOutput, error)
	StopDBCluster(ctx context.Context, params *neptune.StopDBClusterInput, optFns ...func(*neptune.Options)) (*neptune.StopDBClusterOutput, error)
	DescribeDBClusters(ctx context.Context, params *neptune.DescribeDBClustersInput, optFns ...func(*neptune.Options)) (*neptune.DescribeDBClustersOutput, error)
}

// Controller starts, stops and describes one cluster. It holds no mutable
// state and may be shared across invocations.
type Controller struct {
	client    neptuneAPI
	clusterID string
}

// New loads the default AWS configuration and creates a Controller.
func New(ctx context.Context, clusterID string, optFns ...func(*config.LoadOptions) error) (*Controller, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewWithClient(neptune.NewFromConfig(cfg), clusterID), nil
}

// NewWithClient creates a Controller around an existing client.
func NewWithClient(client neptuneAPI, clusterID string) *Controller {
	return &Controller{client: client, clusterID: clusterID}
}

// ClusterID returns the identifier this controller acts on.
func (c *Controller) ClusterID() string {
	return c.clusterID
}

// Start requests the cluster be started.
func (c *Controller) Start(ctx context.Context) error {
	_, err := c.client.StartDBCluster(ctx, &neptune.StartDBClusterInput{
		DBClusterIdentifier: aws.String(c.clusterID),
	})
	if err != nil {
		return c.downstream(OpStart, err)
	}
	return nil
}

// Stop requests the cluster be stopped.
func (c *Controller) Stop(ctx context.Context) error {
	_, err := c.client.StopDBCluster(ctx, &neptune.StopDBClusterInput{
		DBClusterIdentifier: aws.String(c.clusterID),
	})
	if err != nil {
		return c.downstream(OpStop, err)
	}
	return nil
}

// Status describes the cluster.
func (c *Controller) Status(ctx context.Context) (domain.ClusterStatus, error) {
	out, err := c.client.DescribeDBClusters(ctx, &neptune.DescribeDBClustersInput{
		DBClusterIdentifier: aws.String(c.clusterID),
	})
	if err != nil {
		return domain.ClusterStatus{}, c.downstream(OpDescribe, err)
	}
	if len(out.DBClusters) == 0 {
		return domain.ClusterStatus{}, c.downstream(OpDescribe, fmt.Errorf("cluster not found"))
	}

	db := out.DBClusters[0]
	return domain.ClusterStatus{
		Identifier:    aws.ToString(db.DBClusterIdentifier),
		Status:        aws.ToString(db.Status),
		EngineVersion: aws.ToString(db.EngineVersion),
		Endpoint:      aws.ToString(db.Endpoint),
	}, nil
}

func (c *Controller) downstream(op string, err error) error {
	return &domain.DownstreamError{Op: op, ClusterID: c.clusterID, Err: err}
}
