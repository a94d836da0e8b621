package thread

import (
	"reflect"
	"testing"

	"github.com/Zuo-Peng/chatview/internal/color"
	"github.com/Zuo-Peng/chatview/internal/parse"
)

const chat = `1/2/2024, 9:01 - Carol: hi all
1/2/2024, 9:02 - Alice: morning
1/2/2024, 9:03 - You: hey
1/2/2024, 9:04 - Alice: coffee?
`

func TestSenders(t *testing.T) {
	got := Senders(parse.ParseString(chat, parse.Options{}))
	want := []string{"Alice", "Carol", "You"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Senders() = %v, want %v", got, want)
	}

	if got := Senders(nil); len(got) != 0 {
		t.Errorf("Senders(nil) = %v, want empty", got)
	}
}

func TestDefaultSelf(t *testing.T) {
	tests := []struct {
		name    string
		senders []string
		want    string
	}{
		{"prefers You", []string{"Alice", "Bob", "You"}, "You"},
		{"first sorted otherwise", []string{"Alice", "Bob"}, "Alice"},
		{"none", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultSelf(tt.senders); got != tt.want {
				t.Errorf("DefaultSelf(%v) = %q, want %q", tt.senders, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	log := parse.ParseString(chat, parse.Options{})

	if got := Filter(log, All); len(got) != 4 {
		t.Errorf("Filter(All) returned %d messages, want 4", len(got))
	}
	if got := Filter(log, ""); len(got) != 4 {
		t.Errorf("Filter(\"\") returned %d messages, want 4", len(got))
	}

	got := Filter(log, "Alice")
	if len(got) != 2 {
		t.Fatalf("Filter(Alice) returned %d messages, want 2", len(got))
	}
	for _, m := range got {
		if m.Sender != "Alice" {
			t.Errorf("Filter(Alice) included sender %q", m.Sender)
		}
	}

	if got := Filter(log, "alice"); len(got) != 0 {
		t.Errorf("Filter is case-sensitive, got %d messages for alice", len(got))
	}
}

func TestBuild(t *testing.T) {
	log := parse.ParseString(chat, parse.Options{})
	before := len(log.Messages)

	th := Build(log, Options{})
	if th.Self != "You" {
		t.Errorf("Self = %q, want You", th.Self)
	}
	if th.Filter != All {
		t.Errorf("Filter = %q, want %q", th.Filter, All)
	}
	if len(th.Entries) != 4 || th.Total != 4 {
		t.Fatalf("Entries = %d Total = %d, want 4 and 4", len(th.Entries), th.Total)
	}
	for _, e := range th.Entries {
		if e.Outgoing != (e.Sender == "You") {
			t.Errorf("entry %q Outgoing = %v", e.Sender, e.Outgoing)
		}
		if e.Color != color.ForSender(e.Sender) {
			t.Errorf("entry %q Color = %s, want %s", e.Sender, e.Color, color.ForSender(e.Sender))
		}
	}

	filtered := Build(log, Options{Self: "Alice", Sender: "Alice"})
	if len(filtered.Entries) != 2 || filtered.Total != 4 {
		t.Errorf("filtered Entries = %d Total = %d, want 2 and 4", len(filtered.Entries), filtered.Total)
	}
	for _, e := range filtered.Entries {
		if !e.Outgoing {
			t.Errorf("entry from self should be outgoing: %+v", e)
		}
	}

	if len(log.Messages) != before {
		t.Error("Build modified the chat log")
	}
}
