package tui

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Zuo-Peng/chatview/internal/index"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/render"
	"github.com/Zuo-Peng/chatview/internal/search"
	"github.com/Zuo-Peng/chatview/internal/thread"
)

// chatCacheSize bounds the parsed chats kept for previews.
const chatCacheSize = 32

// previewRequest is everything the preview of the selected result depends on.
type previewRequest struct {
	result search.Result
	sender string // "" = all
	self   string // "" = default for the chat
	query  string
	width  int
}

func (p previewRequest) key() string {
	return fmt.Sprintf("%s:%d:%s:%s:%d", p.result.ChatKey, p.result.MsgID, p.sender, p.self, p.width)
}

// previewMsg is sent when an async preview render completes.
type previewMsg struct {
	key     string
	senders []string
	self    string // resolved "me" of the rendered thread
	content string
	hitLine int
	err     error
}

func loadChat(db *index.DB, cache *lru.Cache[string, *parse.ChatLog], chatKey string) (*parse.ChatLog, error) {
	if cache != nil {
		if log, ok := cache.Get(chatKey); ok {
			return log, nil
		}
	}
	log, err := db.LoadChat(context.Background(), chatKey)
	if err != nil {
		return nil, fmt.Errorf("load chat: %w", err)
	}
	if log == nil {
		return nil, fmt.Errorf("chat not found: %s", chatKey)
	}
	if cache != nil {
		cache.Add(chatKey, log)
	}
	return log, nil
}

// hitIndex maps the message at position msgID in log to its index among
// the messages left by filter, or -1 when the filter hides it.
func hitIndex(log *parse.ChatLog, msgID int, filter string) int {
	if msgID < 0 || msgID >= log.Len() {
		return -1
	}
	if filter == "" || filter == thread.All {
		return msgID
	}
	if log.Messages[msgID].Sender != filter {
		return -1
	}
	n := 0
	for _, m := range log.Messages[:msgID] {
		if m.Sender == filter {
			n++
		}
	}
	return n
}

// renderPreview renders the whole chat of req as a thread scrolled to the hit.
func renderPreview(db *index.DB, cache *lru.Cache[string, *parse.ChatLog], req previewRequest) previewMsg {
	msg := previewMsg{key: req.key(), hitLine: -1}
	log, err := loadChat(db, cache, req.result.ChatKey)
	if err != nil {
		msg.err = err
		return msg
	}

	senders := thread.Senders(log)
	self := ""
	for _, s := range senders {
		if s == req.self {
			self = s
		}
	}
	t := thread.Build(log, thread.Options{Self: self, Sender: req.sender})

	msg.senders = senders
	msg.self = t.Self
	msg.content, msg.hitLine = render.RenderThread(t, render.Options{
		Hit:   hitIndex(log, req.result.MsgID, t.Filter),
		Width: req.width,
		Query: req.query,
		Title: req.result.Title,
	})
	return msg
}
