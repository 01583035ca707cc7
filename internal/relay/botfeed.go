package relay

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"timesrelay/internal/domain"
	"timesrelay/internal/markup"
)

// SubtypePolicy controls how strictly a bot-feed rule checks the message
// subtype. Observed rule configurations differ, so both behaviors are
// explicit options.
type SubtypePolicy string

const (
	// SubtypeBotOnly accepts only messages whose subtype marks a bot author.
	SubtypeBotOnly SubtypePolicy = "bot-only"
	// SubtypeAny accepts every subtype, including none.
	SubtypeAny SubtypePolicy = "any"
)

const noTextPlaceholder = "No text"

// BotFeedConfig configures a bot-feed relay rule.
type BotFeedConfig struct {
	SourceChannelID string
	Policy          SubtypePolicy
	Keyword         string // optional case-insensitive pattern; no match drops the message
	Gateway         domain.SourceGateway
	Destinations    Destinations
	Sender          domain.Sender
	Logger          *slog.Logger
}

// BotFeed relays automated feed postings: raw passthrough to chat
// destinations, translated content plus rich embeds to webhooks.
type BotFeed struct {
	srcChannelID string
	policy       SubtypePolicy
	keyword      *regexp.Regexp
	gateway      domain.SourceGateway
	dests        Destinations
	sender       domain.Sender
	logger       *slog.Logger
}

// NewBotFeed validates the rule, compiles the keyword filter, and builds
// the callback.
func NewBotFeed(cfg BotFeedConfig) (*BotFeed, error) {
	if cfg.SourceChannelID == "" {
		return nil, fmt.Errorf("bot feed: source channel id is required")
	}
	switch cfg.Policy {
	case "", SubtypeBotOnly, SubtypeAny:
	default:
		return nil, fmt.Errorf("bot feed: unknown subtype policy %q", cfg.Policy)
	}
	if cfg.Policy == "" {
		cfg.Policy = SubtypeBotOnly
	}

	var keyword *regexp.Regexp
	if cfg.Keyword != "" {
		re, err := regexp.Compile("(?i)" + cfg.Keyword)
		if err != nil {
			return nil, fmt.Errorf("bot feed: keyword filter: %w", err)
		}
		keyword = re
	}

	return &BotFeed{
		srcChannelID: cfg.SourceChannelID,
		policy:       cfg.Policy,
		keyword:      keyword,
		gateway:      cfg.Gateway,
		dests:        cfg.Destinations,
		sender:       cfg.Sender,
		logger:       cfg.Logger,
	}, nil
}

func (b *BotFeed) Name() string { return "bot-feed:" + b.srcChannelID }

// HandleMessage filters, translates, and fans out one feed message.
func (b *BotFeed) HandleMessage(ctx context.Context, ev *domain.MessageEvent) error {
	if ev.ChannelID != b.srcChannelID {
		return nil
	}
	if b.policy == SubtypeBotOnly && ev.SubType != "bot_message" {
		b.logger.Warn("bot feed: skipping non-bot subtype", "channel", b.srcChannelID, "subtype", ev.SubType)
		return nil
	}

	content := []string{markup.Translate(ev.Text)}
	for _, att := range ev.Attachments {
		if att.Pretext == "" && att.Text == "" {
			continue
		}
		content = append(content, markup.Translate(att.Text))
	}
	joined := strings.Join(content, "\n")

	if b.keyword != nil && !b.keyword.MatchString(joined) {
		b.logger.Info("bot feed: keyword filter dropped message", "channel", b.srcChannelID)
		return nil
	}

	for _, dest := range b.dests.Chats {
		if err := dest.Sink.PostMessage(ctx, dest.ChannelID, ev.Text, ev.Attachments, b.sender); err != nil {
			return fmt.Errorf("bot feed: chat %s: %w", dest.ChannelID, err)
		}
	}

	if joined == "" {
		joined = noTextPlaceholder
	}
	embeds := b.buildEmbeds(ctx, ev)
	for i, dest := range b.dests.Webhooks {
		if err := dest.Sink.Deliver(ctx, joined, b.sender, embeds); err != nil {
			return fmt.Errorf("bot feed: webhook %d: %w", i, err)
		}
	}
	return nil
}

// buildEmbeds constructs one embed per attachment when the first
// attachment carries structured fields. Each embed is stamped with the
// source channel's display name as a footer.
func (b *BotFeed) buildEmbeds(ctx context.Context, ev *domain.MessageEvent) []domain.Embed {
	if len(ev.Attachments) == 0 {
		return nil
	}
	first := ev.Attachments[0]
	if first.AuthorName == "" && first.ImageURL == "" && first.Timestamp == "" {
		return nil
	}

	footer := ""
	if b.gateway != nil {
		ch, err := b.gateway.FetchChannel(ctx, ev.ChannelID)
		if err != nil {
			b.logger.Warn("bot feed: resolve channel for embed footer", "channel", ev.ChannelID, "err", err)
		} else {
			footer = "#" + ch.Name
		}
	}

	embeds := make([]domain.Embed, 0, len(ev.Attachments))
	for _, att := range ev.Attachments {
		embeds = append(embeds, domain.Embed{
			Description: markup.Translate(att.Text),
			ImageURL:    att.ImageURL,
			AuthorName:  att.AuthorName,
			AuthorLink:  att.AuthorLink,
			AuthorIcon:  att.AuthorIcon,
			FooterText:  footer,
			Timestamp:   att.Time(),
		})
	}
	return embeds
}
