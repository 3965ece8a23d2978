package estaterec

import (
	"context"
	"net/http"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/register", credentials{username, password}, nil)
}

// Login opens a session. Subsequent calls on c are authenticated.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var s Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", credentials{username, password}, &s); err != nil {
		return Session{}, err
	}
	c.setToken(s.Token)
	return s, nil
}

// Logout revokes the current session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.setToken("")
	return err
}
