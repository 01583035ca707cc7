package relay

import (
	"timesrelay/internal/domain"
	"timesrelay/internal/token"
)

// Token keys round-tripped through the prompt buttons.
const (
	keyChannelID = "channel_id"
	keyEventTS   = "event_ts"
	keyMessageTS = "message_ts"
	keyThreadTS  = "thread_ts"
)

// PendingConfirmation is the confirm-gate context for one staged message.
// It lives only inside the encoded button value; the service keeps no
// server-side record, so a restart between prompt and click simply loses
// that one flow.
type PendingConfirmation struct {
	ChannelID string
	EventTS   string
	MessageTS string // always present; enforced at creation
	ThreadTS  string // set only for thread replies
}

// Encode serializes the confirmation into the opaque token wire format.
// Empty optional fields are omitted.
func (p PendingConfirmation) Encode() string {
	fields := []token.Field{{Key: keyChannelID, Val: p.ChannelID}}
	if p.EventTS != "" {
		fields = append(fields, token.Field{Key: keyEventTS, Val: p.EventTS})
	}
	fields = append(fields, token.Field{Key: keyMessageTS, Val: p.MessageTS})
	if p.ThreadTS != "" {
		fields = append(fields, token.Field{Key: keyThreadTS, Val: p.ThreadTS})
	}
	return token.Encode(fields)
}

// DecodePendingConfirmation parses an encoded button value back into a
// PendingConfirmation.
func DecodePendingConfirmation(s string) (PendingConfirmation, error) {
	m, err := token.Decode(s)
	if err != nil {
		return PendingConfirmation{}, err
	}
	p := PendingConfirmation{
		ChannelID: m[keyChannelID],
		EventTS:   m[keyEventTS],
		MessageTS: m[keyMessageTS],
		ThreadTS:  m[keyThreadTS],
	}
	if p.MessageTS == "" {
		return PendingConfirmation{}, &domain.DecodeError{Token: s, Reason: "missing " + keyMessageTS}
	}
	return p, nil
}
