package domain

import "fmt"

// ConfigurationError reports a missing or invalid startup setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Key, e.Reason)
}

// MalformedEventError reports a payload that does not yield an ActionDescriptor.
type MalformedEventError struct {
	Reason string
	Err    error
}

func (e *MalformedEventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed event: %s: %v", e.Reason, e.Err)
	}
	return "malformed event: " + e.Reason
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

// DownstreamError wraps a failed control plane call. The original error is
// available through errors.Unwrap / errors.As.
type DownstreamError struct {
	Op        string
	ClusterID string
	Err       error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ClusterID, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}
