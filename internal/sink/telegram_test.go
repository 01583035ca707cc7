package sink

import (
	"testing"

	"timesrelay/internal/domain"
)

func TestFlattenEmbeds_NoEmbeds(t *testing.T) {
	if got := flattenEmbeds("just text", nil); got != "just text" {
		t.Errorf("got %q", got)
	}
}

func TestFlattenEmbeds_AppendsEmbedLines(t *testing.T) {
	embeds := []domain.Embed{
		{
			AuthorName:  "Feed Bot",
			Description: "feed item",
			ImageURL:    "https://img.example.com/a.png",
		},
		{Description: "second"},
		{}, // empty embed adds nothing
	}
	got := flattenEmbeds("headline", embeds)
	want := "headline\n\nFeed Bot\nfeed item\nhttps://img.example.com/a.png\n\nsecond"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
