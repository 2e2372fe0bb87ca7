package vercel

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vercel-bot/engine/internal/models"
	appErr "github.com/vercel-bot/engine/pkg/errors"
)

// DefaultDeploymentLimit applies when ListDeployments gets a limit <= 0.
const DefaultDeploymentLimit = 10

// ListDeployments returns the most recent deployments, newest first. An
// empty project falls back to the configured one; with neither, deployments
// of every project in scope are listed. The result is never nil.
func (c *Client) ListDeployments(ctx context.Context, projectIDOrName string, limit int) ([]models.Deployment, error) {
	if limit <= 0 {
		limit = DefaultDeploymentLimit
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if project := c.resolveProject(projectIDOrName); project != "" {
		q.Set("projectId", project)
	}

	var resp deploymentsResponse
	if err := c.do(ctx, "list deployments", http.MethodGet, "/v6/deployments", q, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Deployment, 0, len(resp.Deployments))
	for _, d := range resp.Deployments {
		out = append(out, d.toModel())
	}
	return out, nil
}

// GetDeployment fetches a single deployment by id or URL.
func (c *Client) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	const op = "get deployment"
	if err := requireArg(op, "deployment id", id); err != nil {
		return nil, err
	}
	var d apiDeployment
	if err := c.do(ctx, op, http.MethodGet, "/v13/deployments/"+escape(id), nil, nil, &d); err != nil {
		return nil, err
	}
	m := d.toModel()
	return &m, nil
}

// TriggerDeployment redeploys the latest deployment of a project to
// production. The project comes from the argument or the client default;
// without either no request is made.
func (c *Client) TriggerDeployment(ctx context.Context, projectName string) (*models.TriggeredDeployment, error) {
	const op = "trigger deployment"
	project := c.resolveProject(projectName)
	if project == "" {
		return nil, appErr.New(appErr.CodeInvalid, "project name is required to trigger deployment")
	}

	latest, err := c.ListDeployments(ctx, project, 1)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, appErr.Newf(appErr.CodeNotFound, "no deployments found to redeploy for project %q", project)
	}

	body := createDeploymentRequest{
		Name:         project,
		Target:       "production",
		DeploymentID: latest[0].UID,
	}
	var d apiDeployment
	if err := c.do(ctx, op, http.MethodPost, "/v13/deployments", nil, body, &d); err != nil {
		return nil, err
	}
	return &models.TriggeredDeployment{
		UID: firstNonEmpty(d.ID, d.UID),
		URL: d.URL,
	}, nil
}

// CancelDeployment asks Vercel to stop a queued or building deployment.
func (c *Client) CancelDeployment(ctx context.Context, id string) error {
	const op = "cancel deployment"
	if err := requireArg(op, "deployment id", id); err != nil {
		return err
	}
	return c.do(ctx, op, http.MethodPatch, "/v12/deployments/"+escape(id)+"/cancel", nil, struct{}{}, nil)
}

func (c *Client) resolveProject(name string) string {
	if s := strings.TrimSpace(name); s != "" {
		return s
	}
	return c.projectName
}
