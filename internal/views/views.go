// Package views holds the view models behind every screen.
//
// A view fetches through the API client and replaces its state only after a
// successful response. Failures keep the last-known state and are reported to the
// Notifier as a transient notice as well as returned.
package views

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/biblio/internal/api"
)

// DocumentBackend is the document part of the API
type DocumentBackend interface {
	ListDocuments(ctx context.Context) ([]api.Document, error)
	ListPendingDocuments(ctx context.Context) ([]api.Document, error)
	UploadDocument(ctx context.Context, req api.UploadDocumentRequest) (*api.Document, error)
	UpdateDocument(ctx context.Context, id string, req api.UpdateDocumentRequest) (*api.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ApproveDocument(ctx context.Context, id string) (*api.Document, error)
	ListTags(ctx context.Context) ([]api.Tag, error)
}

// ChatBackend is the conversation part of the API
type ChatBackend interface {
	ListConversations(ctx context.Context) ([]api.Conversation, error)
	CreateConversation(ctx context.Context, req api.CreateConversationRequest) (*api.Conversation, error)
	ListMessages(ctx context.Context) ([]api.Message, error)
	SendMessage(ctx context.Context, req api.SendMessageRequest) (*api.Message, error)
}

// UserBackend is the account management part of the API
type UserBackend interface {
	ListUsers(ctx context.Context) ([]api.User, error)
	CreateUser(ctx context.Context, req api.CreateUserRequest) (*api.User, error)
	UpdateUser(ctx context.Context, id string, req api.UpdateUserRequest) (*api.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Backend is the whole API surface. *api.Client satisfies it.
type Backend interface {
	DocumentBackend
	ChatBackend
	UserBackend
}

var _ Backend = (*api.Client)(nil)

// Level grades a notice
type Level int

const (
	LevelSuccess Level = iota
	LevelInfo
	LevelError
)

// Notice is a transient notification
type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a func to Notifier
type NotifierFunc func(Notice)

// Notify implements Notifier
func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// orDiscard returns n, or a no-op notifier for nil
func orDiscard(n Notifier) Notifier {
	if n == nil {
		return discardNotifier{}
	}
	return n
}

// failure reports err under title and returns it unchanged
func failure(n Notifier, title string, err error) error {
	n.Notify(Notice{Level: LevelError, Title: title, Message: ErrorMessage(err)})
	return err
}

func success(n Notifier, title, message string) {
	n.Notify(Notice{Level: LevelSuccess, Title: title, Message: message})
}

// ErrorMessage renders err for a notice, preferring the backend's detail text
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail()
	}
	return err.Error()
}
