package api

import (
	"context"
	"net/http"
)

// Tag labels documents
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ListTags lists every tag
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.call(ctx, http.MethodGet, "/tags/", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
