package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"timesrelay/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGateway records gateway calls and serves canned responses.
type fakeGateway struct {
	user    domain.User
	userErr error
	channel domain.Channel
	message domain.Message
	msgErr  error

	fetchUserCalls []string
	fetchMsgCalls  []fetchMsgCall
	prompts        []promptCall
}

type fetchMsgCall struct {
	channelID string
	timestamp string
	isReply   bool
}

type promptCall struct {
	channelID string
	userID    string
	text      string
	buttons   []domain.Button
}

func (g *fakeGateway) FetchUser(_ context.Context, userID string) (domain.User, error) {
	g.fetchUserCalls = append(g.fetchUserCalls, userID)
	return g.user, g.userErr
}

func (g *fakeGateway) FetchChannel(_ context.Context, _ string) (domain.Channel, error) {
	return g.channel, nil
}

func (g *fakeGateway) FetchMessage(_ context.Context, channelID, ts string, isReply bool) (domain.Message, error) {
	g.fetchMsgCalls = append(g.fetchMsgCalls, fetchMsgCall{channelID, ts, isReply})
	return g.message, g.msgErr
}

func (g *fakeGateway) PostEphemeralPrompt(_ context.Context, channelID, userID, text string, buttons []domain.Button) error {
	g.prompts = append(g.prompts, promptCall{channelID, userID, text, buttons})
	return nil
}

// fakeChatSink records posted messages.
type fakeChatSink struct {
	posts []chatPost
	err   error
}

type chatPost struct {
	channelID   string
	text        string
	attachments []domain.Attachment
	sender      domain.Sender
}

func (s *fakeChatSink) PostMessage(_ context.Context, channelID, text string, atts []domain.Attachment, sender domain.Sender) error {
	if s.err != nil {
		return s.err
	}
	s.posts = append(s.posts, chatPost{channelID, text, atts, sender})
	return nil
}

// fakeWebhookSink records deliveries.
type fakeWebhookSink struct {
	deliveries []webhookDelivery
	err        error
}

type webhookDelivery struct {
	content string
	sender  domain.Sender
	embeds  []domain.Embed
}

func (s *fakeWebhookSink) Deliver(_ context.Context, content string, sender domain.Sender, embeds []domain.Embed) error {
	if s.err != nil {
		return s.err
	}
	s.deliveries = append(s.deliveries, webhookDelivery{content, sender, embeds})
	return nil
}

// fakeReporter records reported failure texts.
type fakeReporter struct {
	reports []string
}

func (r *fakeReporter) Report(_ context.Context, text string) {
	r.reports = append(r.reports, text)
}

var errBoom = errors.New("boom")
