package share_test

import (
	"strings"
	"testing"

	"github.com/sgksm85/beauty-clinic-message-card/internal/viewer/share"
)

func TestCardURL(t *testing.T) {
	got := share.CardURL("https://cards.example.com", "abc-123")
	want := "https://cards.example.com/card/abc-123"
	if got != want {
		t.Errorf("CardURL = %q, want %q", got, want)
	}

	// trailing slash on the base must not double up
	if got := share.CardURL("https://cards.example.com/", "abc-123"); got != want {
		t.Errorf("CardURL with trailing slash = %q, want %q", got, want)
	}
}

func TestLineShareText(t *testing.T) {
	url := "https://cards.example.com/card/abc"

	sender := "スタッフ一同"
	got := share.LineShareText(&sender, url)
	if got != "スタッフ一同からメッセージカードが届きました!\n"+url {
		t.Errorf("sender-aware text = %q", got)
	}

	anon := share.LineShareText(nil, url)
	if anon != "メッセージカードが届きました!\n"+url {
		t.Errorf("anonymous text = %q", anon)
	}

	empty := ""
	if share.LineShareText(&empty, url) != anon {
		t.Error("empty sender name should read as anonymous")
	}
}

func TestLineShareURL(t *testing.T) {
	got := share.LineShareURL("hello world\nhttps://x")
	if !strings.HasPrefix(got, "line://msg/text/") {
		t.Errorf("LineShareURL = %q, want line://msg/text/ prefix", got)
	}
	if strings.ContainsAny(strings.TrimPrefix(got, "line://msg/text/"), " \n") {
		t.Errorf("share text not escaped: %q", got)
	}
}
