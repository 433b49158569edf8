package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

const (
	// WarmupSource is the source value of keep-warm pings.
	WarmupSource = "warmup"

	// WarmupDelay holds the instance busy long enough for sibling pings to land elsewhere.
	WarmupDelay = 75 * time.Millisecond

	// MaxWarmupConcurrency caps self-invocations per ping.
	MaxWarmupConcurrency = 10
)

// WarmupEvent is a keep-warm ping. Concurrency asks for that many extra
// instances to be woken.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse reports how many instances the ping touched.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

type invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

type warmer struct {
	client invoker
	logger *slog.Logger
}

func newWarmer(client invoker, logger *slog.Logger) *warmer {
	return &warmer{client: client, logger: logger}
}

// IsWarmupEvent reports whether event is a keep-warm ping. Only source
// decides; a concurrency that is missing or unreadable counts as 0.
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal(event, &fields); err != nil {
		return nil, false
	}
	if source, _ := fields["source"].(string); source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: WarmupSource}
	switch v := fields["concurrency"].(type) {
	case float64:
		warmup.Concurrency = int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			warmup.Concurrency = n
		}
	}
	if warmup.Concurrency < 0 {
		warmup.Concurrency = 0
	}
	if warmup.Concurrency > MaxWarmupConcurrency {
		warmup.Concurrency = MaxWarmupConcurrency
	}
	return warmup, true
}

// Handle answers a ping, fanning out first when extra instances were asked for.
// Fan-out failures are logged, never returned.
func (w *warmer) Handle(ctx context.Context, warmup *WarmupEvent) (interface{}, error) {
	warmed := 1
	if warmup.Concurrency > 0 {
		if err := w.selfInvoke(ctx, warmup.Concurrency); err != nil {
			w.logger.Warn("warmup self-invoke failed", "error", err)
		} else {
			warmed += warmup.Concurrency
		}
	}

	time.Sleep(WarmupDelay)

	return map[string]interface{}{
		"statusCode": 200,
		"body": WarmupResponse{
			Status:          "warm",
			InstancesWarmed: warmed,
		},
	}, nil
}

// selfInvoke sends count async pings to this function and returns the first error.
func (w *warmer) selfInvoke(ctx context.Context, count int) error {
	target := lambdacontext.FunctionName
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.InvokedFunctionArn != "" {
		target = lc.InvokedFunctionArn
	}

	// concurrency 0 stops the children from pinging again
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			_, err := w.client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(target),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			if err == nil {
				return
			}
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	return firstErr
}
