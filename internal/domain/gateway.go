package domain

import "context"

// SourceGateway is the capability set callbacks need from the source
// workspace: metadata resolution, history lookups, and prompt posting.
// All calls block until the platform responds; timeouts are the
// implementation's concern.
type SourceGateway interface {
	FetchUser(ctx context.Context, userID string) (User, error)
	FetchChannel(ctx context.Context, channelID string) (Channel, error)
	// FetchMessage looks up a single message by channel and timestamp.
	// When isReply is true the lookup goes through the thread replies API.
	FetchMessage(ctx context.Context, channelID, timestamp string, isReply bool) (Message, error)
	PostEphemeralPrompt(ctx context.Context, channelID, userID, text string, buttons []Button) error
}

// ChatSink posts a relayed message into a chat channel under the configured
// sender identity.
type ChatSink interface {
	PostMessage(ctx context.Context, channelID, text string, attachments []Attachment, sender Sender) error
}

// WebhookSink delivers translated content to a webhook-style endpoint.
type WebhookSink interface {
	Deliver(ctx context.Context, content string, sender Sender, embeds []Embed) error
}

// ErrorReporter receives formatted failure notifications from the
// dispatcher. Implementations must not fail loudly; a reporting error is
// logged and dropped.
type ErrorReporter interface {
	Report(ctx context.Context, text string)
}

// ChannelDirectory lists and joins source-workspace channels. Used by the
// CLI maintenance commands, not by the dispatch core.
type ChannelDirectory interface {
	ListChannels(ctx context.Context) ([]Channel, error)
	ListJoinedChannels(ctx context.Context) ([]Channel, error)
	JoinChannel(ctx context.Context, channelID string) error
}
