// Package slackgw implements the source-workspace gateway and the
// chat-destination sink on top of the slack-go client, plus the Socket
// Mode transport that feeds the dispatcher.
package slackgw

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"timesrelay/internal/domain"
)

// Client wraps one workspace's Web API client. The same type serves as the
// source gateway (metadata, history, prompts) and as a chat destination
// sink for target workspaces.
type Client struct {
	api    *slack.Client
	logger *slog.Logger
}

// NewClient wraps an authenticated slack-go client.
func NewClient(api *slack.Client, logger *slog.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// Icon sizes in preference order; image_48 is the most common.
var iconSizes = []func(p *slack.UserProfile) string{
	func(p *slack.UserProfile) string { return p.Image48 },
	func(p *slack.UserProfile) string { return p.Image24 },
	func(p *slack.UserProfile) string { return p.Image32 },
	func(p *slack.UserProfile) string { return p.Image72 },
	func(p *slack.UserProfile) string { return p.Image192 },
	func(p *slack.UserProfile) string { return p.Image512 },
}

// FetchUser resolves a user's profile, including the authoritative bot flag.
func (c *Client) FetchUser(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, &domain.GatewayError{Op: "users.info", Err: fmt.Errorf("empty user id")}
	}
	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return domain.User{}, &domain.GatewayError{Op: "users.info", Err: err}
	}

	iconURL := ""
	for _, pick := range iconSizes {
		if url := pick(&user.Profile); url != "" {
			iconURL = url
			break
		}
	}
	display := user.Profile.DisplayName
	if display == "" {
		display = user.Profile.RealName
	}
	if display == "" {
		display = user.Name
	}
	if display == "" {
		display = "No Name"
	}

	return domain.User{
		ID:          user.ID,
		Name:        user.Name,
		DisplayName: display,
		IconURL:     iconURL,
		IsBot:       user.IsBot,
	}, nil
}

// FetchChannel resolves channel metadata.
func (c *Client) FetchChannel(ctx context.Context, channelID string) (domain.Channel, error) {
	if channelID == "" {
		return domain.Channel{}, &domain.GatewayError{Op: "conversations.info", Err: fmt.Errorf("empty channel id")}
	}
	ch, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: channelID})
	if err != nil {
		return domain.Channel{}, &domain.GatewayError{Op: "conversations.info", Err: err}
	}
	return domain.Channel{ID: ch.ID, Name: ch.Name, IsArchived: ch.IsArchived}, nil
}

// FetchMessage looks up a single message by timestamp. Thread replies go
// through conversations.replies, everything else through
// conversations.history with an inclusive oldest bound.
func (c *Client) FetchMessage(ctx context.Context, channelID, timestamp string, isReply bool) (domain.Message, error) {
	var messages []slack.Message

	if isReply {
		msgs, _, _, err := c.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
			ChannelID: channelID,
			Timestamp: timestamp,
			Oldest:    timestamp,
			Inclusive: true,
			Limit:     1,
		})
		if err != nil {
			return domain.Message{}, &domain.GatewayError{Op: "conversations.replies", Err: err}
		}
		messages = msgs
	} else {
		resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
			ChannelID: channelID,
			Oldest:    timestamp,
			Inclusive: true,
			Limit:     1,
		})
		if err != nil {
			return domain.Message{}, &domain.GatewayError{Op: "conversations.history", Err: err}
		}
		messages = resp.Messages
	}

	if len(messages) == 0 {
		return domain.Message{}, &domain.GatewayError{
			Op:  "conversations.history",
			Err: fmt.Errorf("no message at %s in %s", timestamp, channelID),
		}
	}

	msg := messages[0]
	return domain.Message{
		Text:            msg.Text,
		Timestamp:       msg.Timestamp,
		ThreadTimestamp: msg.ThreadTimestamp,
		Attachments:     fromSlackAttachments(msg.Attachments),
	}, nil
}

// PostMessage posts into a channel under the configured sender identity.
// Implements domain.ChatSink.
func (c *Client) PostMessage(ctx context.Context, channelID, text string, attachments []domain.Attachment, sender domain.Sender) error {
	opts := []slack.MsgOption{
		slack.MsgOptionText(text, false),
		slack.MsgOptionUsername(sender.Name),
		slack.MsgOptionIconURL(sender.IconURL),
	}
	if len(attachments) > 0 {
		opts = append(opts, slack.MsgOptionAttachments(toSlackAttachments(attachments)...))
	}
	if _, _, err := c.api.PostMessageContext(ctx, channelID, opts...); err != nil {
		return &domain.GatewayError{Op: "chat.postMessage", Err: err}
	}
	return nil
}

// PostEphemeralPrompt posts a button prompt visible only to one user.
func (c *Client) PostEphemeralPrompt(ctx context.Context, channelID, userID, text string, buttons []domain.Button) error {
	elements := make([]slack.BlockElement, 0, len(buttons))
	for _, b := range buttons {
		btn := slack.NewButtonBlockElement(b.ActionID, b.Value,
			slack.NewTextBlockObject(slack.PlainTextType, b.Label, false, false))
		switch b.Style {
		case "primary":
			btn = btn.WithStyle(slack.StylePrimary)
		case "danger":
			btn = btn.WithStyle(slack.StyleDanger)
		}
		elements = append(elements, btn)
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil,
		),
		slack.NewActionBlock("relay_confirm", elements...),
	}

	_, err := c.api.PostEphemeralContext(ctx, channelID, userID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return &domain.GatewayError{Op: "chat.postEphemeral", Err: err}
	}
	return nil
}

func fromSlackAttachments(atts []slack.Attachment) []domain.Attachment {
	if len(atts) == 0 {
		return nil
	}
	out := make([]domain.Attachment, 0, len(atts))
	for _, a := range atts {
		out = append(out, domain.Attachment{
			Text:       a.Text,
			Pretext:    a.Pretext,
			Fallback:   a.Fallback,
			ImageURL:   a.ImageURL,
			Timestamp:  a.Ts.String(),
			AuthorName: a.AuthorName,
			AuthorLink: a.AuthorLink,
			AuthorIcon: a.AuthorIcon,
		})
	}
	return out
}

func toSlackAttachments(atts []domain.Attachment) []slack.Attachment {
	out := make([]slack.Attachment, 0, len(atts))
	for _, a := range atts {
		out = append(out, slack.Attachment{
			Text:       a.Text,
			Pretext:    a.Pretext,
			Fallback:   a.Fallback,
			ImageURL:   a.ImageURL,
			AuthorName: a.AuthorName,
			AuthorLink: a.AuthorLink,
			AuthorIcon: a.AuthorIcon,
		})
	}
	return out
}
