// Package token encodes a small flat key-value payload into a single
// opaque string so interactive-prompt context can round-trip through the
// platform's button values without server-side state.
//
// Wire format: "key1:val1/key2:val2". Separators inside values are not
// escaped, so a value containing '/' or ':' corrupts decoding. The format
// is kept as-is for compatibility with tokens already in flight.
package token

import (
	"strings"

	"timesrelay/internal/domain"
)

const (
	pairSep = "/"
	kvSep   = ":"
)

// Field is one key-value pair. Encoding preserves field order.
type Field struct {
	Key string
	Val string
}

// Encode serializes fields in order.
func Encode(fields []Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Key+kvSep+f.Val)
	}
	return strings.Join(parts, pairSep)
}

// Decode is the inverse of Encode for well-formed tokens. A segment
// without the key/value separator yields a *domain.DecodeError.
func Decode(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, seg := range strings.Split(s, pairSep) {
		key, val, ok := strings.Cut(seg, kvSep)
		if !ok {
			return nil, &domain.DecodeError{Token: s, Reason: "segment " + seg + " has no key/value separator"}
		}
		out[key] = val
	}
	return out, nil
}
