// Package handler maps inbound events to cluster operations.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/wizeline/neptune-scheduler/internal/action"
	"github.com/wizeline/neptune-scheduler/internal/domain"
	"github.com/wizeline/neptune-scheduler/internal/logging"
)

// DefaultEchoMessage is logged by ECHO when the event carries no MESSAGE.
const DefaultEchoMessage = "Hello from the cluster scheduler"

// Operation is a single registered action.
type Operation func(ctx context.Context, desc domain.ActionDescriptor, logger *slog.Logger) error

// Cluster is the control plane surface the operations need.
type Cluster interface {
	ClusterID() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (domain.ClusterStatus, error)
}

// Dispatcher routes an event to exactly one operation, or none when the
// action is unknown. The registry is fixed at construction.
type Dispatcher struct {
	cluster Cluster
	logger  *slog.Logger
	ops     map[domain.Action]Operation
}

// New creates a Dispatcher bound to a cluster controller.
func New(cluster Cluster, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Dispatcher{cluster: cluster, logger: logger}
	d.ops = map[domain.Action]Operation{
		domain.ActionStart:  d.start,
		domain.ActionStop:   d.stop,
		domain.ActionStatus: d.status,
		domain.ActionEcho:   echo,
	}
	return d
}

// Actions lists the registered action names in sorted order.
func (d *Dispatcher) Actions() []domain.Action {
	out := make([]domain.Action, 0, len(d.ops))
	for a := range d.ops {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Handle processes one event. Unknown actions are logged and ignored.
func (d *Dispatcher) Handle(ctx context.Context, raw json.RawMessage) error {
	logger := logging.WithInvocation(ctx, d.logger)

	evt, err := action.Parse(raw)
	if err != nil {
		logger.Error("rejecting event", "error", err)
		return err
	}
	desc := evt.Descriptor

	logger = logger.With(
		slog.String("action", string(desc.Action)),
		slog.String("cluster", d.cluster.ClusterID()),
	)
	if evt.ID != "" {
		logger = logger.With(slog.String("event_id", evt.ID), slog.String("source", evt.Source))
	}

	op, ok := d.ops[desc.Action]
	if !ok {
		logger.Warn("unknown action, ignoring")
		return nil
	}

	logger.Info("dispatching action")
	if err := op(ctx, desc, logger); err != nil {
		logger.Error("action failed", "error", err)
		return err
	}
	logger.Info("action completed")
	return nil
}

func (d *Dispatcher) start(ctx context.Context, _ domain.ActionDescriptor, _ *slog.Logger) error {
	return d.cluster.Start(ctx)
}

func (d *Dispatcher) stop(ctx context.Context, _ domain.ActionDescriptor, _ *slog.Logger) error {
	return d.cluster.Stop(ctx)
}

func (d *Dispatcher) status(ctx context.Context, _ domain.ActionDescriptor, logger *slog.Logger) error {
	st, err := d.cluster.Status(ctx)
	if err != nil {
		return err
	}
	logger.Info("cluster status",
		slog.String("status", st.Status),
		slog.String("engine_version", st.EngineVersion),
		slog.String("endpoint", st.Endpoint),
	)
	return nil
}

func echo(_ context.Context, desc domain.ActionDescriptor, logger *slog.Logger) error {
	msg := desc.Message
	if msg == "" {
		msg = DefaultEchoMessage
	}
	logger.Info(msg)
	return nil
}
