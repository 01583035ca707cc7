package relay

import (
	"context"
	"fmt"
	"log/slog"

	"timesrelay/internal/domain"
)

// DirectRelayConfig configures an ungated relay rule.
type DirectRelayConfig struct {
	SourceChannelID string
	Destinations    Destinations
	Sender          domain.Sender
	Logger          *slog.Logger
}

// DirectRelay fans a source-channel message out to chat destinations
// immediately, with no confirmation gate and no author filter. Text and
// attachments pass through verbatim; chat destinations speak the same
// dialect as the source. Webhook destinations are ignored by this variant.
type DirectRelay struct {
	srcChannelID string
	dests        Destinations
	sender       domain.Sender
	logger       *slog.Logger
}

// NewDirectRelay validates the rule and builds the callback.
func NewDirectRelay(cfg DirectRelayConfig) (*DirectRelay, error) {
	if cfg.SourceChannelID == "" {
		return nil, fmt.Errorf("direct relay: source channel id is required")
	}
	return &DirectRelay{
		srcChannelID: cfg.SourceChannelID,
		dests:        cfg.Destinations,
		sender:       cfg.Sender,
		logger:       cfg.Logger,
	}, nil
}

func (d *DirectRelay) Name() string { return "direct:" + d.srcChannelID }

// HandleMessage relays any message from the source channel as-is.
func (d *DirectRelay) HandleMessage(ctx context.Context, ev *domain.MessageEvent) error {
	if ev.ChannelID != d.srcChannelID {
		return nil
	}

	d.logger.Info("direct relay", "channel", d.srcChannelID, "chats", len(d.dests.Chats))

	for _, dest := range d.dests.Chats {
		if err := dest.Sink.PostMessage(ctx, dest.ChannelID, ev.Text, ev.Attachments, d.sender); err != nil {
			return fmt.Errorf("direct relay: chat %s: %w", dest.ChannelID, err)
		}
	}
	return nil
}
