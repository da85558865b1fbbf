package views

import (
	"context"
	"sort"
	"strings"

	"github.com/felixgeelhaar/biblio/internal/api"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// Chat is the conversation list and the selected thread
type Chat struct {
	backend ChatBackend
	notify  Notifier

	conversations []api.Conversation
	messages      []api.Message
	selected      string
}

// NewChat creates the chat view
func NewChat(backend ChatBackend, n Notifier) *Chat {
	return &Chat{backend: backend, notify: orDiscard(n)}
}

// Load fetches conversations and messages. When the user has no conversation
// yet one is created and selected.
func (c *Chat) Load(ctx context.Context) error {
	convs, err := c.backend.ListConversations(ctx)
	if err != nil {
		return failure(c.notify, "Chargement impossible", err)
	}

	if len(convs) == 0 {
		created, err := c.backend.CreateConversation(ctx, api.CreateConversationRequest{})
		if err != nil {
			return failure(c.notify, "Création de conversation impossible", err)
		}
		convs = []api.Conversation{*created}
	}

	msgs, err := c.backend.ListMessages(ctx)
	if err != nil {
		return failure(c.notify, "Chargement impossible", err)
	}

	sortConversations(convs)
	c.conversations = convs
	c.messages = msgs
	if _, ok := c.find(c.selected); !ok {
		c.selected = convs[0].ID
	}
	return nil
}

// sortConversations orders by last activity, newest first
func sortConversations(convs []api.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].Activity().After(convs[j].Activity())
	})
}

// Conversations returns the conversations, most recent first
func (c *Chat) Conversations() []api.Conversation {
	return c.conversations
}

func (c *Chat) find(id string) (api.Conversation, bool) {
	if id == "" {
		return api.Conversation{}, false
	}
	for _, conv := range c.conversations {
		if conv.ID == id {
			return conv, true
		}
	}
	return api.Conversation{}, false
}

// Selected returns the selected conversation
func (c *Chat) Selected() (api.Conversation, bool) {
	return c.find(c.selected)
}

// Select switches to the conversation with id
func (c *Chat) Select(id string) error {
	if _, ok := c.find(id); !ok {
		return berrors.New(berrors.ErrCodeInputInvalid, "no conversation "+id)
	}
	c.selected = id
	return nil
}

// NewConversation creates a conversation, selects it and puts it first
func (c *Chat) NewConversation(ctx context.Context, title string) (*api.Conversation, error) {
	created, err := c.backend.CreateConversation(ctx, api.CreateConversationRequest{Title: strings.TrimSpace(title)})
	if err != nil {
		return nil, failure(c.notify, "Création de conversation impossible", err)
	}
	c.conversations = append([]api.Conversation{*created}, c.conversations...)
	c.selected = created.ID
	return created, nil
}

// Messages returns the selected conversation's messages, oldest first
func (c *Chat) Messages() []api.Message {
	var out []api.Message
	for _, m := range c.messages {
		if m.Conversation == c.selected && c.selected != "" {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Send posts content to the selected conversation. Content is trimmed and
// blank content is rejected without calling the backend.
func (c *Chat) Send(ctx context.Context, content string) (*api.Message, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, berrors.NewInputRequiredError("message")
	}
	conv, ok := c.Selected()
	if !ok {
		return nil, berrors.New(berrors.ErrCodeInputInvalid, "no conversation selected")
	}

	msg, err := c.backend.SendMessage(ctx, api.SendMessageRequest{
		Conversation: conv.ID,
		Sender:       api.SenderUser,
		Content:      text,
	})
	if err != nil {
		return nil, failure(c.notify, "Envoi impossible", err)
	}

	c.messages = append(c.messages, *msg)
	if msgs, err := c.backend.ListMessages(ctx); err == nil {
		c.messages = msgs
	}
	return msg, nil
}
