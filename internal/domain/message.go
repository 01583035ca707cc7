package domain

import (
	"strconv"
	"time"
)

// MessageEvent is one normalized inbound message from the source workspace.
// It is owned by the dispatcher for the duration of a single dispatch call
// and is never mutated by callbacks.
type MessageEvent struct {
	ChannelID       string
	UserID          string
	BotID           string
	SubType         string // e.g. "bot_message"
	Timestamp       string // opaque platform timestamp ("1671130926.123456")
	ThreadTimestamp string // empty when the message is not a thread reply
	Text            string
	Attachments     []Attachment
}

// FromBot reports whether the event looks bot-authored. Callbacks that care
// re-confirm against the authoritative user profile via the gateway.
func (e *MessageEvent) FromBot() bool {
	return e.BotID != "" || e.SubType == "bot_message"
}

// ActionEvent is one interactive button press round-tripped back from the
// platform UI.
type ActionEvent struct {
	ActionID    string
	Value       string // opaque encoded token attached to the button
	ChannelID   string
	UserID      string
	ResponseURL string
}

// Attachment is the read-only attachment payload carried by feed messages.
type Attachment struct {
	Text       string
	Pretext    string
	Fallback   string
	ImageURL   string
	Timestamp  string // epoch-seconds float string, may be empty
	AuthorName string
	AuthorLink string
	AuthorIcon string
}

// Time converts the attachment timestamp to a time.Time.
// Returns the zero time when the timestamp is absent or unparsable.
func (a Attachment) Time() time.Time {
	if a.Timestamp == "" {
		return time.Time{}
	}
	f, err := strconv.ParseFloat(a.Timestamp, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(int64(f), 0)
}

// Message is a full message fetched from conversation history.
type Message struct {
	Text            string
	Timestamp       string
	ThreadTimestamp string
	Attachments     []Attachment
}

// User is the resolved profile of a message author.
type User struct {
	ID          string
	Name        string
	DisplayName string
	IconURL     string
	IsBot       bool
}

// Channel is resolved channel metadata.
type Channel struct {
	ID         string
	Name       string
	IsArchived bool
}

// Sender is the identity stamped onto relayed messages.
type Sender struct {
	Name    string
	IconURL string
}

// Button describes one interactive prompt button.
type Button struct {
	ActionID string
	Label    string
	Style    string // "primary" | "danger" | ""
	Value    string
}

// Embed is a platform-neutral rich embed built from a feed attachment.
// Sinks that cannot render embeds ignore them.
type Embed struct {
	Description string
	ImageURL    string
	AuthorName  string
	AuthorLink  string
	AuthorIcon  string
	FooterText  string
	Timestamp   time.Time
}
