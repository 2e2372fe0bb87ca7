package vercel

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vercel-bot/engine/internal/models"
)

const projectsPageSize = 100

// ListProjects returns every project visible to the token, following
// pagination until the cursor runs out or stops moving. The result is never
// nil.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	var until *int64
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(projectsPageSize))
		if until != nil {
			q.Set("until", strconv.FormatInt(*until, 10))
		}

		var page projectsResponse
		if err := c.do(ctx, "list projects", http.MethodGet, "/v9/projects", q, nil, &page); err != nil {
			return nil, err
		}
		for _, p := range page.Projects {
			projects = append(projects, p.toModel())
		}

		next := page.Pagination.Next
		if next == nil || len(page.Projects) == 0 || (until != nil && *next == *until) {
			return projects, nil
		}
		until = next
	}
}

// GetProject fetches a project by id or name.
func (c *Client) GetProject(ctx context.Context, idOrName string) (*models.Project, error) {
	const op = "get project"
	if err := requireArg(op, "project id or name", idOrName); err != nil {
		return nil, err
	}
	var p apiProject
	if err := c.do(ctx, op, http.MethodGet, "/v9/projects/"+escape(idOrName), nil, nil, &p); err != nil {
		return nil, err
	}
	m := p.toModel()
	return &m, nil
}

// CreateProject creates a project. framework is forwarded verbatim and
// omitted when empty.
func (c *Client) CreateProject(ctx context.Context, name, framework string) (*models.Project, error) {
	const op = "create project"
	if err := requireArg(op, "project name", name); err != nil {
		return nil, err
	}
	body := createProjectRequest{Name: strings.TrimSpace(name), Framework: strings.TrimSpace(framework)}
	var p apiProject
	if err := c.do(ctx, op, http.MethodPost, "/v10/projects", nil, body, &p); err != nil {
		return nil, err
	}
	m := p.toModel()
	return &m, nil
}

// DeleteProject permanently removes a project.
func (c *Client) DeleteProject(ctx context.Context, idOrName string) error {
	const op = "delete project"
	if err := requireArg(op, "project id or name", idOrName); err != nil {
		return err
	}
	return c.do(ctx, op, http.MethodDelete, "/v9/projects/"+escape(idOrName), nil, nil, nil)
}
