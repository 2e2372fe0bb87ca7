package types

import "github.com/vercel-bot/engine/internal/notify"

// WebhookEvent is the envelope Vercel posts to webhook endpoints. Only the
// fields used for notifications are decoded.
type WebhookEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	CreatedAt int64          `json:"createdAt"`
	Payload   WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Deployment WebhookDeployment `json:"deployment"`
	Links      WebhookLinks      `json:"links"`
	Target     string            `json:"target,omitempty"`
}

type WebhookDeployment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type WebhookLinks struct {
	Deployment string `json:"deployment"`
	Project    string `json:"project"`
}

// DeploymentEvent extracts the notification view of the delivery.
func (e WebhookEvent) DeploymentEvent() notify.DeploymentEvent {
	return notify.DeploymentEvent{
		Type:         e.Type,
		Project:      e.Payload.Deployment.Name,
		URL:          e.Payload.Deployment.URL,
		InspectorURL: e.Payload.Links.Deployment,
	}
}
