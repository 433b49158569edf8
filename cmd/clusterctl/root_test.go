package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wizeline/neptune-scheduler/internal/config"
	"github.com/wizeline/neptune-scheduler/internal/domain"
	"github.com/wizeline/neptune-scheduler/internal/handler"
)

type fakeCluster struct {
	id    string
	calls []string
	err   error
}

func (f *fakeCluster) ClusterID() string { return f.id }

func (f *fakeCluster) Start(ctx context.Context) error {
	f.calls = append(f.calls, "start")
	return f.err
}

func (f *fakeCluster) Stop(ctx context.Context) error {
	f.calls = append(f.calls, "stop")
	return f.err
}

func (f *fakeCluster) Status(ctx context.Context) (domain.ClusterStatus, error) {
	f.calls = append(f.calls, "status")
	return domain.ClusterStatus{Identifier: f.id, Status: "available"}, f.err
}

// useFake swaps the controller factory for the duration of a test.
func useFake(t *testing.T, fake *fakeCluster) {
	t.Helper()
	old := newController
	newController = func(ctx context.Context, id, region string) (handler.Cluster, error) {
		fake.id = id
		return fake, nil
	}
	t.Cleanup(func() { newController = old })
}

func run(args ...string) error {
	cmd := RootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestCommands(t *testing.T) {
	tests := []struct {
		args  []string
		calls []string
	}{
		{[]string{"start", "--cluster", "kb-cluster"}, []string{"start"}},
		{[]string{"stop", "--cluster", "kb-cluster"}, []string{"stop"}},
		{[]string{"status", "--cluster", "kb-cluster"}, []string{"status"}},
		{[]string{"send", "STOP", "--cluster", "kb-cluster"}, []string{"stop"}},
		{[]string{"send", "WIGGLE", "--cluster", "kb-cluster"}, nil},
		{[]string{"send", "ECHO", "--message", "hi", "--cluster", "kb-cluster"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.args[0]+" "+tt.args[1], func(t *testing.T) {
			fake := &fakeCluster{}
			useFake(t, fake)

			require.NoError(t, run(tt.args...))
			assert.Equal(t, tt.calls, fake.calls)
			if tt.calls != nil {
				assert.Equal(t, "kb-cluster", fake.id)
			}
		})
	}
}

func TestCommands_ClusterFromEnv(t *testing.T) {
	t.Setenv(config.EnvClusterIdentifier, "env-cluster")
	fake := &fakeCluster{}
	useFake(t, fake)

	require.NoError(t, run("start"))
	assert.Equal(t, "env-cluster", fake.id)
}

func TestCommands_MissingCluster(t *testing.T) {
	t.Setenv(config.EnvClusterIdentifier, "")
	fake := &fakeCluster{}
	useFake(t, fake)

	err := run("start")
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Empty(t, fake.calls)
}

func TestCommands_DownstreamError(t *testing.T) {
	cause := &domain.DownstreamError{Op: "StartDBCluster", ClusterID: "kb-cluster", Err: errors.New("denied")}
	fake := &fakeCluster{err: cause}
	useFake(t, fake)

	err := run("start", "--cluster", "kb-cluster")
	assert.ErrorIs(t, err, cause)
}

func TestBuildEvent(t *testing.T) {
	now := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	raw, err := buildEvent(domain.ActionEcho, "hello", now)
	require.NoError(t, err)

	var evt events.CloudWatchEvent
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, EventSource, evt.Source)
	assert.Equal(t, "Scheduled Event", evt.DetailType)
	assert.True(t, evt.Time.Equal(now))
	_, err = uuid.Parse(evt.ID)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"ACTION": "ECHO", "MESSAGE": "hello"}`, string(evt.Detail))

	raw, err = buildEvent(domain.ActionStop, "", now)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.JSONEq(t, `{"ACTION": "STOP"}`, string(evt.Detail))
}
