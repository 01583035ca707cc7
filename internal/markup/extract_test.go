package markup

import (
	"reflect"
	"testing"
)

func TestExtractURLs_Empty(t *testing.T) {
	if got := ExtractURLs(""); len(got) != 0 {
		t.Errorf("expected no URLs, got %v", got)
	}
}

func TestExtractURLs_BareAndLabeled(t *testing.T) {
	got := ExtractURLs("see <https://a.com> and <https://b.com|B>")
	want := []string{"https://a.com", "https://b.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractURLs_MultiplePerLine(t *testing.T) {
	got := ExtractURLs("<https://a.com> mid <https://b.com>")
	want := []string{"https://a.com", "https://b.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractURLs_DuplicatesPreserved(t *testing.T) {
	got := ExtractURLs("<https://a.com>\n<https://a.com|https://a.com>")
	want := []string{"https://a.com", "https://a.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractURLs_SkipsMentions(t *testing.T) {
	got := ExtractURLs("<@U1> in <#C1|general> posted <https://a.com>")
	want := []string{"https://a.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
