package vercel

import (
	"time"

	"github.com/vercel-bot/engine/internal/models"
)

type pagination struct {
	Count int    `json:"count"`
	Next  *int64 `json:"next"`
}

type projectsResponse struct {
	Projects   []apiProject `json:"projects"`
	Pagination pagination   `json:"pagination"`
}

type apiProject struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AccountID       string `json:"accountId"`
	CreatedAt       int64  `json:"createdAt"`
	Framework       string `json:"framework"`
	BuildCommand    string `json:"buildCommand"`
	DevCommand      string `json:"devCommand"`
	OutputDirectory string `json:"outputDirectory"`
}

func (p apiProject) toModel() models.Project {
	return models.Project{
		ID:              p.ID,
		Name:            p.Name,
		AccountID:       p.AccountID,
		CreatedAt:       fromMillis(p.CreatedAt),
		Framework:       p.Framework,
		BuildCommand:    p.BuildCommand,
		DevCommand:      p.DevCommand,
		OutputDirectory: p.OutputDirectory,
	}
}

type deploymentsResponse struct {
	Deployments []apiDeployment `json:"deployments"`
	Pagination  pagination      `json:"pagination"`
}

// apiDeployment covers both the v6 list shape (uid, created, state) and
// the v13 single-deployment shape (id, createdAt, readyState).
type apiDeployment struct {
	UID          string `json:"uid"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Created      int64  `json:"created"`
	CreatedAt    int64  `json:"createdAt"`
	State        string `json:"state"`
	ReadyState   string `json:"readyState"`
	Target       string `json:"target"`
	InspectorURL string `json:"inspectorUrl"`
	Creator      struct {
		UID      string `json:"uid"`
		Username string `json:"username"`
	} `json:"creator"`
	Meta struct {
		GithubCommitRef     string `json:"githubCommitRef"`
		GithubCommitSha     string `json:"githubCommitSha"`
		GithubCommitMessage string `json:"githubCommitMessage"`
	} `json:"meta"`
}

func (d apiDeployment) toModel() models.Deployment {
	out := models.Deployment{
		UID:          firstNonEmpty(d.UID, d.ID),
		Name:         d.Name,
		URL:          d.URL,
		State:        models.DeploymentState(firstNonEmpty(d.State, d.ReadyState)),
		Target:       d.Target,
		InspectorURL: d.InspectorURL,
		Creator: models.Creator{
			UID:      d.Creator.UID,
			Username: d.Creator.Username,
		},
	}
	if d.Created != 0 {
		out.Created = fromMillis(d.Created)
	} else {
		out.Created = fromMillis(d.CreatedAt)
	}
	if d.Meta.GithubCommitRef != "" || d.Meta.GithubCommitSha != "" || d.Meta.GithubCommitMessage != "" {
		out.Meta = &models.CommitMeta{
			CommitRef:     d.Meta.GithubCommitRef,
			CommitSHA:     d.Meta.GithubCommitSha,
			CommitMessage: d.Meta.GithubCommitMessage,
		}
	}
	return out
}

type createDeploymentRequest struct {
	Name         string `json:"name"`
	Target       string `json:"target"`
	DeploymentID string `json:"deploymentId,omitempty"`
}

type createProjectRequest struct {
	Name      string `json:"name"`
	Framework string `json:"framework,omitempty"`
}

type userResponse struct {
	User struct {
		UID      string `json:"uid"`
		ID       string `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"user"`
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
