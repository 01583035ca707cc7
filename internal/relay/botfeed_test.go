package relay

import (
	"context"
	"testing"

	"timesrelay/internal/domain"
)

func newTestBotFeed(t *testing.T, cfg BotFeedConfig) *BotFeed {
	t.Helper()
	if cfg.SourceChannelID == "" {
		cfg.SourceChannelID = "C-FEED"
	}
	if cfg.Logger == nil {
		cfg.Logger = testLogger()
	}
	b, err := NewBotFeed(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNewBotFeed_Validation(t *testing.T) {
	if _, err := NewBotFeed(BotFeedConfig{}); err == nil {
		t.Error("expected error for missing channel id")
	}
	if _, err := NewBotFeed(BotFeedConfig{SourceChannelID: "C1", Policy: "sometimes"}); err == nil {
		t.Error("expected error for unknown subtype policy")
	}
	if _, err := NewBotFeed(BotFeedConfig{SourceChannelID: "C1", Keyword: "("}); err == nil {
		t.Error("expected error for bad keyword pattern")
	}
}

func TestBotFeed_BotOnlyPolicyRejectsPlainMessages(t *testing.T) {
	hook := &fakeWebhookSink{}
	b := newTestBotFeed(t, BotFeedConfig{
		Policy:       SubtypeBotOnly,
		Destinations: Destinations{Webhooks: []WebhookDestination{{Sink: hook}}},
	})

	ev := &domain.MessageEvent{ChannelID: "C-FEED", Text: "human post"}
	if err := b.HandleMessage(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if len(hook.deliveries) != 0 {
		t.Error("bot-only policy must drop plain messages")
	}
}

func TestBotFeed_AnyPolicyAcceptsPlainMessages(t *testing.T) {
	hook := &fakeWebhookSink{}
	b := newTestBotFeed(t, BotFeedConfig{
		Policy:       SubtypeAny,
		Destinations: Destinations{Webhooks: []WebhookDestination{{Sink: hook}}},
	})

	ev := &domain.MessageEvent{ChannelID: "C-FEED", Text: "human post"}
	if err := b.HandleMessage(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if len(hook.deliveries) != 1 {
		t.Fatalf("expected delivery, got %d", len(hook.deliveries))
	}
}

func TestBotFeed_KeywordFilter(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		delivered bool
	}{
		{"no match drops", "no match here", false},
		{"case-insensitive match delivers", "this is Urgent news", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hook := &fakeWebhookSink{}
			b := newTestBotFeed(t, BotFeedConfig{
				Policy:       SubtypeAny,
				Keyword:      "urgent",
				Destinations: Destinations{Webhooks: []WebhookDestination{{Sink: hook}}},
			})
			ev := &domain.MessageEvent{ChannelID: "C-FEED", Text: tc.text}
			if err := b.HandleMessage(context.Background(), ev); err != nil {
				t.Fatal(err)
			}
			if got := len(hook.deliveries) == 1; got != tc.delivered {
				t.Errorf("delivered=%v, want %v", got, tc.delivered)
			}
		})
	}
}

func TestBotFeed_EmptyContentGetsPlaceholder(t *testing.T) {
	hook := &fakeWebhookSink{}
	b := newTestBotFeed(t, BotFeedConfig{
		Policy:       SubtypeAny,
		Destinations: Destinations{Webhooks: []WebhookDestination{{Sink: hook}}},
	})

	ev := &domain.MessageEvent{ChannelID: "C-FEED", SubType: "bot_message"}
	if err := b.HandleMessage(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if len(hook.deliveries) != 1 || hook.deliveries[0].content != "No text" {
		t.Errorf("expected placeholder, got %+v", hook.deliveries)
	}
}

func TestBotFeed_ChatDestinationsGetRawTextAndAttachments(t *testing.T) {
	chat := &fakeChatSink{}
	b := newTestBotFeed(t, BotFeedConfig{
		Policy:       SubtypeAny,
		Destinations: Destinations{Chats: []ChatDestination{{Sink: chat, ChannelID: "C-TGT"}}},
	})

	atts := []domain.Attachment{{Text: "feed item <https://a.com>"}}
	ev := &domain.MessageEvent{ChannelID: "C-FEED", SubType: "bot_message", Text: "raw <https://a.com>", Attachments: atts}
	if err := b.HandleMessage(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if len(chat.posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(chat.posts))
	}
	if chat.posts[0].text != "raw <https://a.com>" {
		t.Errorf("chat text must stay raw, got %q", chat.posts[0].text)
	}
	if len(chat.posts[0].attachments) != 1 {
		t.Errorf("attachments must pass through")
	}
}

func TestBotFeed_WebhookContentJoinsTranslatedAttachmentText(t *testing.T) {
	hook := &fakeWebhookSink{}
	b := newTestBotFeed(t, BotFeedConfig{
		Policy: SubtypeAny,
		Destinations: Destinations{
			Webhooks: []WebhookDestination{{Sink: hook}},
		},
	})

	ev := &domain.MessageEvent{
		ChannelID: "C-FEED",
		SubType:   "bot_message",
		Text:      "headline",
		Attachments: []domain.Attachment{
			{Text: "body<https://a.com>"},
			{Pretext: "pre only"},
			{}, // no pretext/text: skipped
		},
	}
	if err := b.HandleMessage(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	want := "headline\nbody https://a.com \n"
	if len(hook.deliveries) != 1 || hook.deliveries[0].content != want {
		t.Errorf("got %+v, want content %q", hook.deliveries, want)
	}
}

func TestBotFeed_EmbedsBuiltFromStructuredAttachments(t *testing.T) {
	hook := &fakeWebhookSink{}
	gw := &fakeGateway{channel: domain.Channel{ID: "C-FEED", Name: "times-feed"}}
	b := newTestBotFeed(t, BotFeedConfig{
		Policy:       SubtypeAny,
		Gateway:      gw,
		Destinations: Destinations{Webhooks: []WebhookDestination{{Sink: hook}}},
	})

	ev := &domain.MessageEvent{
		ChannelID: "C-FEED",
		SubType:   "bot_message",
		Text:      "headline",
		Attachments: []domain.Attachment{
			{
				Text:       "first",
				AuthorName: "Feed Bot",
				AuthorLink: "https://feed.example.com",
				AuthorIcon: "https://feed.example.com/icon.png",
				ImageURL:   "https://feed.example.com/img.png",
				Timestamp:  "1671130926.000000",
			},
			{Text: "second"},
		},
	}
	if err := b.HandleMessage(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	if len(hook.deliveries) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(hook.deliveries))
	}
	embeds := hook.deliveries[0].embeds
	if len(embeds) != 2 {
		t.Fatalf("expected one embed per attachment, got %d", len(embeds))
	}
	if embeds[0].AuthorName != "Feed Bot" || embeds[0].ImageURL != "https://feed.example.com/img.png" {
		t.Errorf("embed fields missing: %+v", embeds[0])
	}
	if embeds[0].Timestamp.IsZero() {
		t.Error("embed timestamp should be set")
	}
	for i, e := range embeds {
		if e.FooterText != "#times-feed" {
			t.Errorf("embed %d footer %q, want #times-feed", i, e.FooterText)
		}
	}
}

func TestBotFeed_NoEmbedsWithoutStructuredFields(t *testing.T) {
	hook := &fakeWebhookSink{}
	b := newTestBotFeed(t, BotFeedConfig{
		Policy:       SubtypeAny,
		Gateway:      &fakeGateway{},
		Destinations: Destinations{Webhooks: []WebhookDestination{{Sink: hook}}},
	})

	ev := &domain.MessageEvent{
		ChannelID:   "C-FEED",
		Text:        "headline",
		Attachments: []domain.Attachment{{Text: "plain text only"}},
	}
	if err := b.HandleMessage(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if len(hook.deliveries) != 1 || hook.deliveries[0].embeds != nil {
		t.Errorf("expected no embeds, got %+v", hook.deliveries)
	}
}
