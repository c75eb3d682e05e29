package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListRoles fetches the available roles, used to offer role choices when
// creating users.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.do(ctx, http.MethodGet, "/roles/all", nil, &roles); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}
