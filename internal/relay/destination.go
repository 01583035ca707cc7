// Package relay contains the callback dispatch core: the registry that
// fans inbound events out to configured callbacks, and the callback
// variants that filter, optionally gate, and relay messages to their
// destinations.
package relay

import "timesrelay/internal/domain"

// ChatDestination posts into a chat channel through a platform client.
type ChatDestination struct {
	Sink      domain.ChatSink
	ChannelID string
}

// WebhookDestination delivers to a URL-bound webhook sink.
type WebhookDestination struct {
	Sink domain.WebhookSink
}

// Destinations is a callback's delivery targets. Slice order is delivery
// order; delivery is not atomic across targets. Both lists may be empty,
// which turns the owning callback into a no-op filter.
type Destinations struct {
	Chats    []ChatDestination
	Webhooks []WebhookDestination
}
