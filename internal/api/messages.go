package api

import (
	"context"
	"net/http"
	"time"
)

// Message senders
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is one chat message
type Message struct {
	ID           string    `json:"id"`
	Conversation string    `json:"conversation"`
	Sender       string    `json:"sender"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

// SendMessageRequest is the body of POST /messages/
type SendMessageRequest struct {
	Conversation string `json:"conversation"`
	Sender       string `json:"sender"`
	Content      string `json:"content"`
}

// ListMessages lists messages across the caller's conversations
func (c *Client) ListMessages(ctx context.Context) ([]Message, error) {
	var messages []Message
	if err := c.call(ctx, http.MethodGet, "/messages/", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a message
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	if req.Sender == "" {
		req.Sender = SenderUser
	}
	var message Message
	if err := c.call(ctx, http.MethodPost, "/messages/", req, &message); err != nil {
		return nil, err
	}
	return &message, nil
}
