package token

import (
	"errors"
	"testing"

	"timesrelay/internal/domain"
)

func TestEncode_OrderPreserved(t *testing.T) {
	got := Encode([]Field{
		{"channel_id", "C123"},
		{"message_ts", "1671130926.123456"},
	})
	want := "channel_id:C123/message_ts:1671130926.123456"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	fields := []Field{
		{"channel_id", "C123"},
		{"event_ts", "1.2"},
		{"message_ts", "3.4"},
		{"thread_ts", "5.6"},
	}
	got, err := Decode(Encode(fields))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(fields) {
		t.Fatalf("expected %d keys, got %d", len(fields), len(got))
	}
	for _, f := range fields {
		if got[f.Key] != f.Val {
			t.Errorf("key %s: got %q, want %q", f.Key, got[f.Key], f.Val)
		}
	}
}

func TestDecode_MissingSeparator(t *testing.T) {
	_, err := Decode("channel_id:C123/garbage")
	if err == nil {
		t.Fatal("expected error for segment without separator")
	}
	var decErr *domain.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *domain.DecodeError, got %T", err)
	}
}
