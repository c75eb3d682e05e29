package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"
)

// Login authenticates against /auth/login. It deliberately bypasses the
// bearer-attaching middleware: no token exists yet, and a stale one must
// not leak into the call. The response is tolerated in two shapes: the
// current `roles` collection and the legacy singular `role` field.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := c.client.R().
		SetContext(withoutAuth(ctx)).
		SetBody(LoginRequest{Email: email, Password: password})
	resp, err := c.execute(ctx, req, http.MethodPost, "/auth/login")
	if err != nil {
		return nil, err
	}
	return parseLoginResponse(resp.Body())
}

func parseLoginResponse(body []byte) (*LoginResponse, error) {
	token := gjson.GetBytes(body, "accessToken").String()
	if token == "" {
		return nil, newError(ErrRequest, 0, "login response missing accessToken", nil)
	}
	out := &LoginResponse{AccessToken: token}
	if roles := gjson.GetBytes(body, "roles"); roles.IsArray() {
		for _, r := range roles.Array() {
			if r.String() != "" {
				out.Roles = append(out.Roles, r.String())
			}
		}
	} else if role := gjson.GetBytes(body, "role"); role.String() != "" {
		out.Roles = []string{role.String()}
	}
	return out, nil
}

// Me fetches the authenticated user's profile. Legacy responses carry a
// singular `role` object instead of a `roles` collection; both are
// accepted.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	req := c.client.R().SetContext(ctx)
	resp, err := c.execute(ctx, req, http.MethodGet, "/users/me")
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := json.Unmarshal(resp.Body(), &profile); err != nil {
		return nil, newError(ErrRequest, 0, "malformed profile response", err)
	}
	if len(profile.Roles) == 0 {
		if role := gjson.GetBytes(resp.Body(), "role"); role.Exists() {
			switch {
			case role.IsObject():
				profile.Roles = []Role{{
					ID:   role.Get("id").Int(),
					Name: role.Get("name").String(),
				}}
			case role.String() != "":
				profile.Roles = []Role{{Name: role.String()}}
			}
		}
	}
	return &profile, nil
}
