// Package logging builds the structured logger shared by the Lambda and the CLI.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// ServiceName is attached to every record.
const ServiceName = "neptune-scheduler"

// New creates a JSON logger on stdout, which the Lambda runtime ships to CloudWatch Logs.
func New(level slog.Level, environment string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, environment)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level slog.Level, environment string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	})
	return slog.New(h).With(
		slog.String("service", ServiceName),
		slog.String("environment", environment),
	)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithInvocation adds the Lambda request id and function ARN when ctx carries them.
func WithInvocation(ctx context.Context, logger *slog.Logger) *slog.Logger {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok {
		return logger
	}
	return logger.With(
		slog.String("aws_request_id", lc.AwsRequestID),
		slog.String("function_arn", lc.InvokedFunctionArn),
	)
}
