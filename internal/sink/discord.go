// Package sink implements the outbound webhook and chat destinations that
// relayed messages fan out to.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"timesrelay/internal/domain"
)

// Discord caps message content at 2000 characters.
const discordMaxMsgLen = 2000

var discordWebhookRe = regexp.MustCompile(`/api/webhooks/(\d+)/([^/?]+)`)

// DiscordWebhook delivers messages to one Discord channel through an
// incoming webhook. Implements domain.WebhookSink.
type DiscordWebhook struct {
	session *discordgo.Session
	id      string
	token   string
	logger  *slog.Logger
}

// NewDiscordWebhook parses a full webhook URL and builds the sink. Webhook
// execution does not need bot authentication, so the session carries no
// token.
func NewDiscordWebhook(webhookURL string, logger *slog.Logger) (*DiscordWebhook, error) {
	m := discordWebhookRe.FindStringSubmatch(webhookURL)
	if m == nil {
		return nil, fmt.Errorf("not a discord webhook url: %q", webhookURL)
	}
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &DiscordWebhook{
		session: session,
		id:      m[1],
		token:   m[2],
		logger:  logger,
	}, nil
}

// Deliver posts the content (chunked to the platform limit) and embeds.
// Embeds ride along with the last chunk so they render under the text.
func (d *DiscordWebhook) Deliver(ctx context.Context, content string, sender domain.Sender, embeds []domain.Embed) error {
	chunks := splitMessage(content, discordMaxMsgLen)
	for i, chunk := range chunks {
		params := &discordgo.WebhookParams{
			Content:   chunk,
			Username:  sender.Name,
			AvatarURL: sender.IconURL,
		}
		if i == len(chunks)-1 {
			params.Embeds = toDiscordEmbeds(embeds)
		}
		if _, err := d.session.WebhookExecute(d.id, d.token, false, params, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("discord webhook execute: %w", err)
		}
	}
	return nil
}

func toDiscordEmbeds(embeds []domain.Embed) []*discordgo.MessageEmbed {
	if len(embeds) == 0 {
		return nil
	}
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		embed := &discordgo.MessageEmbed{
			Description: e.Description,
		}
		if e.AuthorName != "" {
			embed.Author = &discordgo.MessageEmbedAuthor{
				Name:    e.AuthorName,
				URL:     e.AuthorLink,
				IconURL: e.AuthorIcon,
			}
		}
		if e.ImageURL != "" {
			embed.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
		}
		if e.FooterText != "" {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: e.FooterText}
		}
		if !e.Timestamp.IsZero() {
			embed.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
		}
		out = append(out, embed)
	}
	return out
}

// splitMessage splits a message into chunks that fit within the max length,
// trying to split on newlines when possible.
func splitMessage(msg string, maxLen int) []string {
	if len(msg) <= maxLen {
		return []string{msg}
	}

	var chunks []string
	for len(msg) > 0 {
		if len(msg) <= maxLen {
			chunks = append(chunks, msg)
			break
		}

		// Try to split on a newline.
		cut := maxLen
		if idx := strings.LastIndex(msg[:maxLen], "\n"); idx > maxLen/2 {
			cut = idx + 1
		}

		chunks = append(chunks, msg[:cut])
		msg = msg[cut:]
	}
	return chunks
}
