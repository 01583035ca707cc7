package relay

import (
	"context"
	"fmt"
	"log/slog"

	"timesrelay/internal/domain"
	"timesrelay/internal/markup"
)

// Action identifiers carried by the two prompt buttons.
const (
	ActionSend    = "action_transfer_send_button"
	ActionDiscard = "action_delete_original"
)

const confirmPromptText = "Relay this message to the configured destinations?"

// ConfirmRelayConfig configures a confirm-gated relay rule.
type ConfirmRelayConfig struct {
	SourceChannelID string
	SourceUserID    string
	Gateway         domain.SourceGateway
	Destinations    Destinations
	Sender          domain.Sender
	Logger          *slog.Logger
}

// ConfirmRelay stages qualifying messages behind an ephemeral Send/No
// prompt and fans out only on an explicit Send. All gate state travels
// inside the button token, never in process memory.
type ConfirmRelay struct {
	srcChannelID string
	srcUserID    string
	gateway      domain.SourceGateway
	dests        Destinations
	sender       domain.Sender
	logger       *slog.Logger
}

// NewConfirmRelay validates the rule and builds the callback.
func NewConfirmRelay(cfg ConfirmRelayConfig) (*ConfirmRelay, error) {
	if cfg.SourceChannelID == "" {
		return nil, fmt.Errorf("confirm relay: source channel id is required")
	}
	if cfg.SourceUserID == "" {
		return nil, fmt.Errorf("confirm relay: source user id is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("confirm relay: gateway is required")
	}
	return &ConfirmRelay{
		srcChannelID: cfg.SourceChannelID,
		srcUserID:    cfg.SourceUserID,
		gateway:      cfg.Gateway,
		dests:        cfg.Destinations,
		sender:       cfg.Sender,
		logger:       cfg.Logger,
	}, nil
}

func (c *ConfirmRelay) Name() string { return "confirm:" + c.srcChannelID }

// HandleMessage stages a prompt for messages from the configured channel
// and author. The event's bot flag is not trusted on its own; the author
// profile is re-fetched before prompting.
func (c *ConfirmRelay) HandleMessage(ctx context.Context, ev *domain.MessageEvent) error {
	if ev.ChannelID != c.srcChannelID || ev.UserID != c.srcUserID || ev.FromBot() {
		return nil
	}

	user, err := c.gateway.FetchUser(ctx, ev.UserID)
	if err != nil {
		return fmt.Errorf("confirm relay: resolve author: %w", err)
	}
	if user.IsBot {
		return nil
	}

	if ev.Timestamp == "" {
		return fmt.Errorf("confirm relay: stage message: %w", domain.ErrMissingTimestamp)
	}

	pending := PendingConfirmation{
		ChannelID: c.srcChannelID,
		EventTS:   ev.Timestamp,
		MessageTS: ev.Timestamp,
		ThreadTS:  ev.ThreadTimestamp,
	}

	buttons := []domain.Button{
		{ActionID: ActionSend, Label: "Send", Style: "primary", Value: pending.Encode()},
		{ActionID: ActionDiscard, Label: "No", Style: "danger", Value: "delete"},
	}

	c.logger.Info("staging confirm prompt",
		"channel", c.srcChannelID,
		"user", ev.UserID,
		"message_ts", ev.Timestamp,
	)
	return c.gateway.PostEphemeralPrompt(ctx, c.srcChannelID, ev.UserID, confirmPromptText, buttons)
}

// HandleAction completes or discards a staged confirmation. Anything other
// than an explicit Send discards; a Send whose token names another channel
// belongs to a different rule instance and is ignored here.
func (c *ConfirmRelay) HandleAction(ctx context.Context, act *domain.ActionEvent) error {
	if act.ActionID != ActionSend {
		return nil
	}

	pending, err := DecodePendingConfirmation(act.Value)
	if err != nil {
		return fmt.Errorf("confirm relay: %w", err)
	}
	if pending.ChannelID != c.srcChannelID {
		return nil
	}

	msg, err := c.gateway.FetchMessage(ctx, pending.ChannelID, pending.MessageTS, pending.ThreadTS != "")
	if err != nil {
		return fmt.Errorf("confirm relay: fetch staged message: %w", err)
	}

	c.logger.Info("confirm accepted, fanning out",
		"channel", c.srcChannelID,
		"message_ts", pending.MessageTS,
		"chats", len(c.dests.Chats),
		"webhooks", len(c.dests.Webhooks),
	)

	// Chat destinations share the source dialect; text goes out verbatim.
	for _, dest := range c.dests.Chats {
		if err := dest.Sink.PostMessage(ctx, dest.ChannelID, msg.Text, nil, c.sender); err != nil {
			return fmt.Errorf("confirm relay: chat %s: %w", dest.ChannelID, err)
		}
	}

	translated := markup.Translate(msg.Text)
	for i, dest := range c.dests.Webhooks {
		if err := dest.Sink.Deliver(ctx, translated, c.sender, nil); err != nil {
			return fmt.Errorf("confirm relay: webhook %d: %w", i, err)
		}
	}
	return nil
}
