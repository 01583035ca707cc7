package slackgw

import (
	"context"
	"log/slog"

	"timesrelay/internal/domain"
)

// ChannelReporter posts dispatcher failure notifications into a dedicated
// channel. Reporting failures are logged and dropped; the reporter must
// never add its own error to the dispatch path.
type ChannelReporter struct {
	client    *Client
	channelID string
	sender    domain.Sender
	logger    *slog.Logger
}

// NewChannelReporter builds a reporter posting into channelID.
func NewChannelReporter(client *Client, channelID string, sender domain.Sender, logger *slog.Logger) *ChannelReporter {
	return &ChannelReporter{client: client, channelID: channelID, sender: sender, logger: logger}
}

func (r *ChannelReporter) Report(ctx context.Context, text string) {
	if err := r.client.PostMessage(ctx, r.channelID, text, nil, r.sender); err != nil {
		r.logger.Error("error report delivery failed", "channel", r.channelID, "err", err)
	}
}
