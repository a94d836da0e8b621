// Package thread derives the read-only view a renderer needs from a parsed
// chat: the sender list, who "me" is, the filtered subset and colors.
package thread

import (
	"sort"

	"github.com/Zuo-Peng/chatview/internal/color"
	"github.com/Zuo-Peng/chatview/internal/parse"
)

// All is the filter sentinel selecting every message.
const All = "All"

// DefaultSelfName is preferred as "me" when it appears among the senders.
const DefaultSelfName = "You"

type Options struct {
	Self   string // "" = DefaultSelf(senders)
	Sender string // "" or All = no filter
}

type Entry struct {
	parse.Message
	Outgoing bool   // sent by Self
	Color    string // "#rrggbb"
}

type Thread struct {
	Senders []string
	Self    string
	Filter  string
	Entries []Entry
	Total   int // messages before filtering
}

// Senders returns the distinct senders of log in sorted order.
func Senders(log *parse.ChatLog) []string {
	seen := make(map[string]struct{})
	senders := []string{}
	if log == nil {
		return senders
	}
	for _, m := range log.Messages {
		if _, ok := seen[m.Sender]; ok {
			continue
		}
		seen[m.Sender] = struct{}{}
		senders = append(senders, m.Sender)
	}
	sort.Strings(senders)
	return senders
}

// DefaultSelf picks "You" when present, otherwise the first sorted sender.
func DefaultSelf(senders []string) string {
	for _, s := range senders {
		if s == DefaultSelfName {
			return s
		}
	}
	if len(senders) == 0 {
		return ""
	}
	return senders[0]
}

// Filter returns the messages whose sender equals sender exactly, or all
// messages for the All sentinel.
func Filter(log *parse.ChatLog, sender string) []parse.Message {
	if log == nil {
		return nil
	}
	if sender == "" || sender == All {
		return log.Messages
	}
	var out []parse.Message
	for _, m := range log.Messages {
		if m.Sender == sender {
			out = append(out, m)
		}
	}
	return out
}

// Build assembles the thread view. log is never modified.
func Build(log *parse.ChatLog, opts Options) *Thread {
	senders := Senders(log)
	self := opts.Self
	if self == "" {
		self = DefaultSelf(senders)
	}
	filter := opts.Sender
	if filter == "" {
		filter = All
	}

	palette := color.Palette(senders)
	msgs := Filter(log, filter)
	entries := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, Entry{
			Message:  m,
			Outgoing: m.Sender == self,
			Color:    palette[m.Sender],
		})
	}

	return &Thread{
		Senders: senders,
		Self:    self,
		Filter:  filter,
		Entries: entries,
		Total:   log.Len(),
	}
}
