package models

import "time"

// DeploymentState is the lifecycle state reported by Vercel. Values outside
// the known set are kept verbatim.
type DeploymentState string

const (
	StateBuilding     DeploymentState = "BUILDING"
	StateError        DeploymentState = "ERROR"
	StateInitializing DeploymentState = "INITIALIZING"
	StateQueued       DeploymentState = "QUEUED"
	StateReady        DeploymentState = "READY"
	StateCanceled     DeploymentState = "CANCELED"
)

// Known reports whether s is one of the documented states.
func (s DeploymentState) Known() bool {
	switch s {
	case StateBuilding, StateError, StateInitializing, StateQueued, StateReady, StateCanceled:
		return true
	}
	return false
}

// Deployment represents a single build-and-publish of a project.
type Deployment struct {
	UID          string          `json:"uid"`
	Name         string          `json:"name"`
	URL          string          `json:"url"`
	Created      time.Time       `json:"created"`
	State        DeploymentState `json:"state"`
	Creator      Creator         `json:"creator"`
	Meta         *CommitMeta     `json:"meta,omitempty"`
	Target       string          `json:"target,omitempty"`
	InspectorURL string          `json:"inspector_url,omitempty"`
}

type Creator struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// CommitMeta carries the git metadata attached by the Git integration.
type CommitMeta struct {
	CommitRef     string `json:"commit_ref,omitempty"`
	CommitSHA     string `json:"commit_sha,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"`
}

// TriggeredDeployment is what the create-deployment endpoint hands back.
type TriggeredDeployment struct {
	UID string `json:"uid"`
	URL string `json:"url"`
}
