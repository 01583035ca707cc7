package markup

import "testing"

func TestTranslate_Empty(t *testing.T) {
	if got := Translate(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestTranslate_MixedTokens(t *testing.T) {
	in := "<@U1>hi<#C1|general>bye<https://a.com>end<https://b.com|B>"
	want := "`@ U1`hi`#general`bye https://a.com end [B](https://b.com) "
	if got := Translate(in); got != want {
		t.Errorf("Translate(%q)\n got %q\nwant %q", in, got, want)
	}
}

func TestTranslate_Entities(t *testing.T) {
	if got := Translate("a &ampb &lt;tag&gt;"); got != "a &b <tag>" {
		t.Errorf("got %q", got)
	}
}

func TestTranslate_UserMention(t *testing.T) {
	if got := Translate("<@U123456>"); got != "`@ U123456`" {
		t.Errorf("got %q", got)
	}
}

func TestTranslate_ChannelMention_KeepsName(t *testing.T) {
	if got := Translate("<#C123456|times-dev>"); got != "`#times-dev`" {
		t.Errorf("got %q", got)
	}
}

func TestTranslate_LabeledLink(t *testing.T) {
	if got := Translate("<https://example.com|docs>"); got != " [docs](https://example.com) " {
		t.Errorf("got %q", got)
	}
}

func TestTranslate_BareLink(t *testing.T) {
	if got := Translate("<https://example.com>"); got != " https://example.com " {
		t.Errorf("got %q", got)
	}
}

func TestTranslate_InlineCodeFence(t *testing.T) {
	got := Translate("```def f():\n    pass```")
	want := "```\ndef f():\n    pass```\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTranslate_MalformedTokensPassThrough(t *testing.T) {
	for _, in := range []string{"<https://a.com", "a > b < c", "<>"} {
		if got := Translate(in); got != in {
			t.Errorf("Translate(%q) = %q, want unchanged", in, got)
		}
	}
}

// Already-translated text with no remaining source tokens must be a fixed
// point of Translate.
func TestTranslate_IdempotentOnTranslatedOutput(t *testing.T) {
	inputs := []string{
		"<@U1>hi<#C1|general>bye<https://a.com>end<https://b.com|B>",
		"check ```code block``` and <https://example.com|label>",
		"plain text, no tokens at all",
	}
	for _, in := range inputs {
		once := Translate(in)
		twice := Translate(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once %q\ntwice %q", in, once, twice)
		}
	}
}
