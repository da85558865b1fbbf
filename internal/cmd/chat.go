package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/ux"
	"github.com/felixgeelhaar/biblio/internal/views"
)

func newChatCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the library assistant",
	}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List conversations, most recent first",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: router.PathChat},
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, err := env.loadChat(cmd)
			if err != nil {
				return err
			}
			current, _ := chat.Selected()
			return env.render(cmd, ux.ConversationTable(chat.Conversations(), current.ID))
		},
	}

	create := &cobra.Command{
		Use:         "new [title...]",
		Short:       "Start a conversation",
		Annotations: map[string]string{annotationRoute: router.PathChat},
		RunE: func(cmd *cobra.Command, args []string) error {
			chat := views.NewChat(env.app.client, env.notifier())
			conv, err := chat.NewConversation(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return env.render(cmd, ux.ConversationTable([]api.Conversation{*conv}, conv.ID))
		},
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Print the messages of a conversation",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: router.PathChat},
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, err := env.loadChat(cmd)
			if err != nil {
				return err
			}
			return env.render(cmd, ux.MessageTable(chat.Messages()))
		},
	}

	send := &cobra.Command{
		Use:         "send <message...>",
		Short:       "Send a message and print the conversation",
		Example:     `  biblio chat send "Quels documents parlent du bail commercial ?"`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{annotationRoute: router.PathChat},
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, err := env.loadChat(cmd)
			if err != nil {
				return err
			}
			if _, err := chat.Send(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			return env.render(cmd, ux.MessageTable(chat.Messages()))
		},
	}

	for _, c := range []*cobra.Command{show, send} {
		c.Flags().StringP("conversation", "c", "", "conversation id (default: the most recent)")
	}

	cmd.AddCommand(list, create, show, send)
	return cmd
}

// loadChat loads conversations and selects the one named by --conversation
func (e *environment) loadChat(cmd *cobra.Command) (*views.Chat, error) {
	chat := views.NewChat(e.app.client, e.notifier())
	if err := chat.Load(cmd.Context()); err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("conversation"); f != nil && f.Value.String() != "" {
		if err := chat.Select(f.Value.String()); err != nil {
			return nil, err
		}
	}
	return chat, nil
}
