package slackgw

import (
	"context"

	"github.com/slack-go/slack"

	"timesrelay/internal/domain"
)

// ListChannels pages through every channel visible to the bot.
func (c *Client) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	var channels []domain.Channel
	cursor := ""
	for {
		page, next, err := c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
			Cursor: cursor,
			Limit:  200,
		})
		if err != nil {
			return nil, &domain.GatewayError{Op: "conversations.list", Err: err}
		}
		for _, ch := range page {
			channels = append(channels, domain.Channel{ID: ch.ID, Name: ch.Name, IsArchived: ch.IsArchived})
		}
		if next == "" {
			return channels, nil
		}
		cursor = next
	}
}

// ListJoinedChannels pages through the channels the bot is a member of.
func (c *Client) ListJoinedChannels(ctx context.Context) ([]domain.Channel, error) {
	var channels []domain.Channel
	cursor := ""
	for {
		page, next, err := c.api.GetConversationsForUserContext(ctx, &slack.GetConversationsForUserParameters{
			Cursor: cursor,
			Limit:  200,
		})
		if err != nil {
			return nil, &domain.GatewayError{Op: "users.conversations", Err: err}
		}
		for _, ch := range page {
			channels = append(channels, domain.Channel{ID: ch.ID, Name: ch.Name, IsArchived: ch.IsArchived})
		}
		if next == "" {
			return channels, nil
		}
		cursor = next
	}
}

// JoinChannel joins one public channel.
func (c *Client) JoinChannel(ctx context.Context, channelID string) error {
	if _, _, _, err := c.api.JoinConversationContext(ctx, channelID); err != nil {
		return &domain.GatewayError{Op: "conversations.join", Err: err}
	}
	return nil
}

// JoinAllChannels joins every unarchived channel the bot is not already a
// member of. Returns the number of channels joined.
func (c *Client) JoinAllChannels(ctx context.Context) (int, error) {
	joined, err := c.ListJoinedChannels(ctx)
	if err != nil {
		return 0, err
	}
	member := make(map[string]bool, len(joined))
	for _, ch := range joined {
		member[ch.ID] = true
	}

	all, err := c.ListChannels(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, ch := range all {
		if member[ch.ID] {
			continue
		}
		if ch.IsArchived {
			c.logger.Info("skipping archived channel", "channel", ch.ID, "name", ch.Name)
			continue
		}
		c.logger.Info("joining channel", "channel", ch.ID, "name", ch.Name)
		if err := c.JoinChannel(ctx, ch.ID); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
