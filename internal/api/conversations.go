package api

import (
	"context"
	"net/http"
	"time"
)

// Conversation modes
const (
	ModeGeneral  = "general"
	ModePersonal = "personal"
	ModeMixed    = "mixed"
)

// DefaultConversationTitle is used when a conversation is created without a title
const DefaultConversationTitle = "Nouvelle conversation"

// Conversation is a chat thread
type Conversation struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Mode         string     `json:"mode"`
	IsActive     bool       `json:"is_active"`
	StartedAt    time.Time  `json:"started_at"`
	LastActivity *time.Time `json:"last_activity"`
}

// Activity is the last activity time, or the start time when none was recorded
func (c Conversation) Activity() time.Time {
	if c.LastActivity != nil && !c.LastActivity.IsZero() {
		return *c.LastActivity
	}
	return c.StartedAt
}

// CreateConversationRequest is the body of POST /conversations/.
// Zero values are replaced by the defaults: DefaultConversationTitle, ModePersonal, active.
type CreateConversationRequest struct {
	Title    string `json:"title"`
	Mode     string `json:"mode"`
	IsActive *bool  `json:"is_active"`
}

// ListConversations lists the caller's conversations
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var conversations []Conversation
	if err := c.call(ctx, http.MethodGet, "/conversations/", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// CreateConversation starts a conversation
func (c *Client) CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error) {
	if req.Title == "" {
		req.Title = DefaultConversationTitle
	}
	if req.Mode == "" {
		req.Mode = ModePersonal
	}
	if req.IsActive == nil {
		active := true
		req.IsActive = &active
	}

	var conversation Conversation
	if err := c.call(ctx, http.MethodPost, "/conversations/", req, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}
