package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wizeline/neptune-scheduler/internal/cluster"
	"github.com/wizeline/neptune-scheduler/internal/config"
	"github.com/wizeline/neptune-scheduler/internal/domain"
	"github.com/wizeline/neptune-scheduler/internal/handler"
	"github.com/wizeline/neptune-scheduler/internal/logging"
)

// EventSource marks events built by this tool.
const EventSource = "clusterctl"

var (
	clusterID string
	region    string
	logLevel  string
	message   string
)

// newController is replaced in tests.
var newController = func(ctx context.Context, clusterID, region string) (handler.Cluster, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	c, err := cluster.New(ctx, clusterID, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RootCmd builds the clusterctl command tree.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "clusterctl",
		Short:        "Start, stop and inspect the scheduled Neptune cluster",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&clusterID, "cluster", os.Getenv(config.EnvClusterIdentifier), "Neptune DB cluster identifier")
	cmd.PersistentFlags().StringVar(&region, "region", os.Getenv("AWS_REGION"), "AWS region, defaults to SDK resolution")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	cmd.AddCommand(actionCmd("start", "Start the cluster", domain.ActionStart))
	cmd.AddCommand(actionCmd("stop", "Stop the cluster", domain.ActionStop))
	cmd.AddCommand(actionCmd("status", "Log the cluster status", domain.ActionStatus))
	cmd.AddCommand(sendCmd())
	return cmd
}

func actionCmd(use, short string, action domain.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd.Context(), action, "")
		},
	}
}

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send ACTION",
		Short: "Send an arbitrary action through the dispatcher",
		Long: "Send an arbitrary action through the dispatcher. Unknown actions are\n" +
			"logged and ignored, exactly as the Lambda does.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd.Context(), domain.Action(args[0]), message)
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "MESSAGE field, used by ECHO")
	return cmd
}

func dispatch(ctx context.Context, action domain.Action, msg string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level, err := config.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	cfg := &config.Config{
		ClusterIdentifier: strings.TrimSpace(clusterID),
		Environment:       "local",
		LogLevel:          level,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w (set --cluster)", err)
	}

	controller, err := newController(ctx, cfg.ClusterIdentifier, region)
	if err != nil {
		return err
	}
	event, err := buildEvent(action, msg, time.Now())
	if err != nil {
		return err
	}

	d := handler.New(controller, logging.New(cfg.LogLevel, cfg.Environment))
	return d.Handle(ctx, event)
}

// buildEvent wraps an action in an EventBridge envelope.
func buildEvent(action domain.Action, msg string, now time.Time) (json.RawMessage, error) {
	detail := map[string]string{"ACTION": string(action)}
	if msg != "" {
		detail["MESSAGE"] = msg
	}
	rawDetail, err := json.Marshal(detail)
	if err != nil {
		return nil, err
	}

	return json.Marshal(events.CloudWatchEvent{
		Version:    "0",
		ID:         uuid.NewString(),
		DetailType: "Scheduled Event",
		Source:     EventSource,
		Time:       now.UTC(),
		Region:     region,
		Resources:  []string{},
		Detail:     rawDetail,
	})
}
