package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListUsers fetches the full user listing.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users/all", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser creates a new user. The request is validated locally before
// it goes out.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, newError(ErrRequest, 0, fmt.Sprintf("invalid user request: %v", err), err)
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/users/create", req, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes a user by ID.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ToggleUserStatus flips a user's enabled flag and returns the updated
// record so callers can apply it locally.
func (c *Client) ToggleUserStatus(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/toggle-status", id), nil, &user); err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}
	return &user, nil
}
