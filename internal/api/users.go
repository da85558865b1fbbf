package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// User is a platform account as returned by the backend. Role is the raw backend string.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// CreateUserRequest is the body of POST /users/
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// UpdateUserRequest is the body of PATCH /users/{id}/. Empty fields are not sent.
type UpdateUserRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Password string `json:"password,omitempty"`
}

// ListUsers lists every account
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.call(ctx, http.MethodGet, "/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var user User
	if err := c.call(ctx, http.MethodPost, "/users/", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser patches an account
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	var user User
	path := fmt.Sprintf("/users/%s/", url.PathEscape(id))
	if err := c.call(ctx, http.MethodPatch, path, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes an account
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	path := fmt.Sprintf("/users/%s/", url.PathEscape(id))
	return c.call(ctx, http.MethodDelete, path, nil, nil)
}
