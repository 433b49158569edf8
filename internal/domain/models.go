// Package domain contains the core domain types for the cluster scheduler.
package domain

// Action names an operation an inbound event requests.
type Action string

// Recognized actions. Matching is case-sensitive.
const (
	ActionStart  Action = "START"
	ActionStop   Action = "STOP"
	ActionStatus Action = "STATUS"
	ActionEcho   Action = "ECHO"
)

// ActionDescriptor is the typed view over an event payload. Message is
// optional and only read by ECHO.
type ActionDescriptor struct {
	Action  Action
	Message string
}

// ClusterStatus is a snapshot of the managed cluster as reported by the control plane.
type ClusterStatus struct {
	Identifier    string `json:"identifier"`
	Status        string `json:"status"`
	EngineVersion string `json:"engineVersion,omitempty"`
	Endpoint      string `json:"endpoint,omitempty"`
}
