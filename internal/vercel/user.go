package vercel

import (
	"context"
	"net/http"

	"github.com/vercel-bot/engine/internal/models"
)

// GetUser returns the account that owns the token.
func (c *Client) GetUser(ctx context.Context) (*models.User, error) {
	var resp userResponse
	if err := c.do(ctx, "get user", http.MethodGet, "/v2/user", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &models.User{
		UID:      firstNonEmpty(resp.User.UID, resp.User.ID),
		Username: resp.User.Username,
		Email:    resp.User.Email,
		Name:     resp.User.Name,
	}, nil
}
