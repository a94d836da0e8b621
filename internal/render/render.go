package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chatview/internal/index"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/thread"
)

const (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

type Options struct {
	// Hit is the highlighted message: an index into the thread entries for
	// RenderThread, a message id for RenderChat. -1 = none.
	Hit     int
	Context int    // messages before/after hit to show, <0 = all
	Width   int    // wrap width (0 = no wrap, no right alignment)
	Query   string // search query for keyword highlighting
	Title   string
	Self    string // RenderChat only; "" = default self
}

// ftsOperators are FTS5 operators that should not be highlighted as keywords.
var ftsOperators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	var filtered []string
	for _, t := range strings.Fields(query) {
		t = strings.Trim(t, `"*`)
		if t != "" && !ftsOperators[t] {
			filtered = append(filtered, t)
		}
	}
	for _, term := range filtered {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			end := pos + len(term)
			if end > len(text) {
				break
			}
			replacement := colorBoldRed + text[pos:end] + colorReset
			text = text[:pos] + replacement + text[end:]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// alignRight pads s on the left so it ends at column width.
func alignRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// window is a slice of entries plus how many were left out on either side.
type window struct {
	entries []thread.Entry
	hitIdx  int
	before  int
	after   int
}

func newWindow(entries []thread.Entry, hit, context int) window {
	w := window{entries: entries, hitIdx: -1}
	if hit < 0 || hit >= len(entries) {
		return w
	}
	if context < 0 {
		w.hitIdx = hit
		return w
	}
	start := hit - context
	if start < 0 {
		start = 0
	}
	end := hit + context + 1
	if end > len(entries) {
		end = len(entries)
	}
	return window{
		entries: entries[start:end],
		hitIdx:  hit - start,
		before:  start,
		after:   len(entries) - end,
	}
}

// RenderThread renders a thread for the terminal and returns the content and
// the 0-based line number of the hit message header (-1 if no hit).
func RenderThread(t *thread.Thread, opts Options) (string, int) {
	if opts.Context == 0 {
		opts.Context = -1
	}
	return renderWindow(t, newWindow(t.Entries, opts.Hit, opts.Context), opts)
}

func renderWindow(t *thread.Thread, w window, opts Options) (string, int) {
	var b strings.Builder
	hitLine := -1
	lineCount := 0
	wrapW := opts.Width

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, wrapW) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}
	writeAligned := func(s string, right bool) {
		for _, wl := range wrapLine(s, wrapW) {
			if right {
				wl = alignRight(wl, wrapW)
			}
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	title := opts.Title
	if title == "" {
		title = "chat"
	}
	writeLine(fmt.Sprintf("%s--- %s [%d/%d messages, filter: %s, me: %s] ---%s",
		colorDim, title, len(t.Entries), t.Total, t.Filter, t.Self, colorReset))

	if len(w.entries) == 0 {
		writeLine(colorDim + "(no messages)" + colorReset)
		return b.String(), -1
	}

	if w.before > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages before) ...%s", colorDim, w.before, colorReset))
	}

	for i, e := range w.entries {
		if i > 0 {
			writeLine("")
		}
		isHit := i == w.hitIdx
		if isHit {
			hitLine = lineCount
		}

		name := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(e.Color)).Render(e.Sender)
		ts := colorDim + e.Timestamp + colorReset

		var header string
		switch {
		case isHit:
			header = fmt.Sprintf("%s>> %s > %s <<%s", colorHit, e.Sender, e.Timestamp, colorReset)
		case e.Outgoing:
			header = fmt.Sprintf("%s < %s", ts, name)
		default:
			header = fmt.Sprintf("%s > %s", name, ts)
		}
		writeAligned(header, e.Outgoing)

		text := highlightKeywords(e.Text, opts.Query)
		if !e.Outgoing {
			text = indentLines(text, "  ")
		}
		for _, tl := range strings.Split(text, "\n") {
			writeAligned(tl, e.Outgoing)
		}
	}

	if w.after > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages after) ...%s", colorDim, w.after, colorReset))
	}

	return b.String(), hitLine
}

// RenderChat renders an indexed chat around a hit message and returns the
// content, the 0-based line number of the hit header (-1 if no hit), and any error.
func RenderChat(db *index.DB, chatKey string, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 10
	}
	if opts.Context < 0 {
		opts.Context = 1000000 // no limit
	}

	chat, err := db.GetChatByKey(chatKey)
	if err != nil {
		return "", -1, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return "", -1, fmt.Errorf("chat not found: %s", chatKey)
	}

	rows, hitIdx, startPos, totalCount, err := db.GetMessagesWindow(chatKey, opts.Hit, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get messages: %w", err)
	}
	if totalCount == 0 {
		return "(empty chat)", -1, nil
	}

	self := opts.Self
	if self == "" {
		senders, err := db.ChatSenders(chatKey)
		if err != nil {
			return "", -1, fmt.Errorf("get senders: %w", err)
		}
		self = thread.DefaultSelf(senders)
	}

	log := &parse.ChatLog{Messages: make([]parse.Message, 0, len(rows))}
	for _, r := range rows {
		log.Messages = append(log.Messages, r.Message())
	}
	t := thread.Build(log, thread.Options{Self: self})
	t.Total = totalCount

	if opts.Title == "" {
		opts.Title = chat.Title
	}
	w := window{
		entries: t.Entries,
		hitIdx:  hitIdx,
		before:  startPos,
		after:   totalCount - startPos - len(rows),
	}
	out, hitLine := renderWindow(t, w, opts)
	return out, hitLine, nil
}
