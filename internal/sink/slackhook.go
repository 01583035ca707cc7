package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"timesrelay/internal/domain"
)

// SlackWebhook delivers messages to a channel in another workspace through
// an incoming webhook. Embeds have no incoming-webhook equivalent, so they
// are flattened into attachments. Implements domain.WebhookSink.
type SlackWebhook struct {
	url    string
	logger *slog.Logger
}

// NewSlackWebhook builds the sink around an incoming webhook URL.
func NewSlackWebhook(webhookURL string, logger *slog.Logger) (*SlackWebhook, error) {
	if !strings.HasPrefix(webhookURL, "https://hooks.slack.com/") {
		return nil, fmt.Errorf("not a slack webhook url: %q", webhookURL)
	}
	return &SlackWebhook{url: webhookURL, logger: logger}, nil
}

func (s *SlackWebhook) Deliver(ctx context.Context, content string, sender domain.Sender, embeds []domain.Embed) error {
	msg := &slack.WebhookMessage{
		Text:     content,
		Username: sender.Name,
		IconURL:  sender.IconURL,
	}
	for _, e := range embeds {
		att := slack.Attachment{
			Text:       e.Description,
			ImageURL:   e.ImageURL,
			AuthorName: e.AuthorName,
			AuthorLink: e.AuthorLink,
			AuthorIcon: e.AuthorIcon,
			Footer:     e.FooterText,
		}
		if !e.Timestamp.IsZero() {
			att.Ts = json.Number(fmt.Sprintf("%d", e.Timestamp.Unix()))
		}
		msg.Attachments = append(msg.Attachments, att)
	}
	if err := slack.PostWebhookContext(ctx, s.url, msg); err != nil {
		return fmt.Errorf("slack webhook post: %w", err)
	}
	return nil
}
