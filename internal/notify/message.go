package notify

import (
	"fmt"
	"strings"
)

// Webhook event types that produce a notification.
const (
	EventDeploymentReady = "deployment.ready"
	EventDeploymentError = "deployment.error"
)

// DeploymentEvent is the subset of a Vercel webhook delivery that ends up in
// a notification.
type DeploymentEvent struct {
	Type         string
	Project      string
	URL          string
	InspectorURL string
}

// Notable reports whether events of this type are relayed.
func (e DeploymentEvent) Notable() bool {
	return e.Type == EventDeploymentReady || e.Type == EventDeploymentError
}

// DeploymentMessage renders the chat text for a relayed event.
func DeploymentMessage(e DeploymentEvent) string {
	status := "❌ Failed"
	if e.Type == EventDeploymentReady {
		status = "✅ Success"
	}
	lines := []string{
		"**Vercel Deployment Update**",
		fmt.Sprintf("Project: %s", e.Project),
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("URL: %s", e.URL),
		fmt.Sprintf("Inspector: %s", e.InspectorURL),
	}
	return strings.Join(lines, "\n")
}
