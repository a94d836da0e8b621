// Package tui is the interactive browser over indexed chats: a result list
// on the left, the selected chat rendered as a thread on the right.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Zuo-Peng/chatview/internal/index"
	"github.com/Zuo-Peng/chatview/internal/open"
	"github.com/Zuo-Peng/chatview/internal/output"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/search"
	"github.com/Zuo-Peng/chatview/internal/thread"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota // full-text search over messages
	modeList                  // chats by recency, input filters titles
)

type resultsMsg struct {
	query   string
	sender  string
	results []search.Result
	err     error
}

type debounceMsg struct{ query string }

type copiedMsg struct {
	text string
	err  error
}

type editorDoneMsg struct{ err error }

type model struct {
	db    *index.DB
	chats *lru.Cache[string, *parse.ChatLog]
	mode  tuiMode
	opts  search.Options // Sender is the active sender filter

	input   textinput.Model
	query   string
	results []search.Result
	cursor  int

	listOffset int
	preview    viewport.Model
	previewKey string

	// senders and chatSelf describe the chat in the preview; self is the
	// requested "me", "" for the chat's default.
	senders  []string
	self     string
	chatSelf string

	help     help.Model
	status   string
	layout   layout
	ready    bool
	quitting bool
}

func newModel(db *index.DB, mode tuiMode, self string, opts search.Options) (model, error) {
	chats, err := lru.New[string, *parse.ChatLog](chatCacheSize)
	if err != nil {
		return model{}, err
	}

	in := textinput.New()
	in.Placeholder = "Search messages..."
	if mode == modeList {
		in.Placeholder = "Filter chats by title..."
	}
	in.Prompt = "> "
	in.PromptStyle = stylePrompt
	in.TextStyle = stylePrompt
	in.CharLimit = 256
	in.Focus()

	return model{
		db:      db,
		chats:   chats,
		mode:    mode,
		opts:    opts,
		input:   in,
		preview: viewport.New(0, 0),
		self:    self,
		help:    help.New(),
	}, nil
}

// Run opens the search browser with query prefilled. self is the preferred
// "me" for previews.
func Run(db *index.DB, query, self string, opts search.Options) error {
	m, err := newModel(db, modeSearch, self, opts)
	if err != nil {
		return err
	}
	m.input.SetValue(query)
	m.query = query
	return run(m)
}

// RunList opens the browser over all chats, most recently changed first.
func RunList(db *index.DB, self string, opts search.Options) error {
	m, err := newModel(db, modeList, self, opts)
	if err != nil {
		return err
	}
	return run(m)
}

func run(m model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetch())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = newLayout(msg.Width, msg.Height)
		m.preview.Width = m.layout.previewW
		m.preview.Height = m.layout.panelH
		m.help.Width = msg.Width
		m.ready = true
		return m, m.loadPreview()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case debounceMsg:
		if msg.query != m.query {
			return m, nil
		}
		return m, m.fetch()

	case resultsMsg:
		return m.applyResults(msg)

	case previewMsg:
		return m.applyPreview(msg), nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "copied: " + strings.ReplaceAll(msg.text, "\n", " ")
		}
		return m, nil

	case editorDoneMsg:
		if msg.err != nil {
			m.status = "editor: " + msg.err.Error()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		return m.moveCursor(m.cursor - 1)
	case key.Matches(msg, keys.Down):
		return m.moveCursor(m.cursor + 1)
	case key.Matches(msg, keys.Copy):
		if r, ok := m.selected(); ok {
			return m, copyCmd(m.db, r)
		}
		return m, nil
	case key.Matches(msg, keys.Edit):
		if r, ok := m.selected(); ok {
			return m, editCmd(m.db, r)
		}
		return m, nil
	case key.Matches(msg, keys.Sender):
		return m.cycleSender()
	case key.Matches(msg, keys.Self):
		return m.cycleSelf()
	case key.Matches(msg, keys.ScrollUp):
		m.preview.LineUp(m.layout.panelH / 2)
		return m, nil
	case key.Matches(msg, keys.ScrollDown):
		m.preview.LineDown(m.layout.panelH / 2)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.query {
		m.query = v
		m.status = ""
		return m, tea.Batch(cmd, debounce(v))
	}
	return m, cmd
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.results) == 0 {
		return m, nil
	}
	region, item := m.layout.hitTest(msg.X, msg.Y, m.listOffset)
	wheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown

	switch {
	case region == regionPreview && wheel:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	case region == regionList && msg.Button == tea.MouseButtonWheelUp:
		return m.moveCursor(m.cursor - 1)
	case region == regionList && msg.Button == tea.MouseButtonWheelDown:
		return m.moveCursor(m.cursor + 1)
	case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		return m.moveCursor(item)
	}
	return m, nil
}

func (m model) selected() (search.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return search.Result{}, false
	}
	return m.results[m.cursor], true
}

func (m model) moveCursor(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.results) || i == m.cursor {
		return m, nil
	}
	m.cursor = i
	m.adjustListScroll(m.layout.panelH)
	return m, m.loadPreview()
}

// cycleSender steps the sender filter through All and the senders of the
// previewed chat, then reruns the query.
func (m model) cycleSender() (tea.Model, tea.Cmd) {
	next := nextOf(append([]string{""}, m.senders...), m.opts.Sender)
	if next == m.opts.Sender {
		return m, nil
	}
	m.opts.Sender = next
	m.status = ""
	return m, m.fetch()
}

// cycleSelf makes the next sender of the previewed chat "me".
func (m model) cycleSelf() (tea.Model, tea.Cmd) {
	if len(m.senders) == 0 {
		return m, nil
	}
	m.self = nextOf(m.senders, m.chatSelf)
	return m, m.loadPreview()
}

// nextOf returns the element after cur, wrapping around, or the first
// element when cur is absent.
func nextOf(options []string, cur string) string {
	if len(options) == 0 {
		return cur
	}
	for i, o := range options {
		if o == cur {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func (m model) fetch() tea.Cmd {
	db, mode, opts := m.db, m.mode, m.opts
	opts.Query = m.query
	return func() tea.Msg {
		res := resultsMsg{query: opts.Query, sender: opts.Sender}
		switch {
		case mode == modeList:
			res.results, res.err = search.ListChats(db, opts)
		case opts.Query != "":
			res.results, res.err = search.Search(db, opts)
		}
		return res
	}
}

func debounce(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceMsg{query: query}
	})
}

func (m model) applyResults(msg resultsMsg) (tea.Model, tea.Cmd) {
	if msg.query != m.query || msg.sender != m.opts.Sender {
		return m, nil // stale
	}
	m.cursor, m.listOffset = 0, 0
	m.previewKey = ""
	if msg.err != nil {
		m.results = nil
		m.preview.SetContent("Error: " + msg.err.Error())
		return m, nil
	}
	m.results = msg.results
	if len(m.results) == 0 {
		m.preview.SetContent("")
		return m, nil
	}
	return m, m.loadPreview()
}

// previewQuery is the query to highlight; list mode filters titles only.
func (m model) previewQuery() string {
	if m.mode == modeList {
		return ""
	}
	return m.query
}

func (m model) previewRequest() (previewRequest, bool) {
	r, ok := m.selected()
	if !ok {
		return previewRequest{}, false
	}
	return previewRequest{
		result: r,
		sender: m.opts.Sender,
		self:   m.self,
		query:  m.previewQuery(),
		width:  m.layout.previewW,
	}, true
}

func (m model) loadPreview() tea.Cmd {
	req, ok := m.previewRequest()
	if !ok || req.key() == m.previewKey {
		return nil
	}
	db, chats := m.db, m.chats
	return func() tea.Msg {
		return renderPreview(db, chats, req)
	}
}

func (m model) applyPreview(msg previewMsg) model {
	req, ok := m.previewRequest()
	if !ok || req.key() != msg.key {
		return m // stale
	}
	m.previewKey = msg.key
	if msg.err != nil {
		m.preview.SetContent("Preview error: " + msg.err.Error())
		return m
	}
	m.senders = msg.senders
	m.chatSelf = msg.self
	m.preview.SetContent(msg.content)
	if msg.hitLine > 0 {
		m.preview.SetYOffset(msg.hitLine)
	} else {
		m.preview.GotoTop()
	}
	return m
}

func copyCmd(db *index.DB, r search.Result) tea.Cmd {
	return func() tea.Msg {
		text, err := messageRecord(db, r.ChatKey, r.MsgID)
		if err == nil {
			err = clipboard.WriteAll(text)
		}
		return copiedMsg{text: text, err: err}
	}
}

// messageRecord formats one indexed message as a "[ts] sender: text" line.
func messageRecord(db *index.DB, chatKey string, msgID int) (string, error) {
	rows, err := db.GetMessages(chatKey)
	if err != nil {
		return "", fmt.Errorf("get messages: %w", err)
	}
	for _, row := range rows {
		if row.MsgID != msgID {
			continue
		}
		var b bytes.Buffer
		log := &parse.ChatLog{Messages: []parse.Message{row.Message()}}
		if err := (&output.TextFormatter{}).Format(context.Background(), log, &b); err != nil {
			return "", err
		}
		return strings.TrimSuffix(b.String(), "\n"), nil
	}
	return "", fmt.Errorf("message %d not found in %s", msgID, chatKey)
}

// editCmd suspends the TUI while the export is open in $EDITOR.
func editCmd(db *index.DB, r search.Result) tea.Cmd {
	c, err := open.Command(db, r.ChatKey, r.MsgID)
	if err != nil {
		return func() tea.Msg { return editorDoneMsg{err: err} }
	}
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	})
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}
	l := m.layout
	list := styleListPanel.Width(l.listW).Height(l.panelH).Render(m.renderList(l.listW, l.panelH))
	preview := stylePreviewPanel.Width(l.previewW).Height(l.panelH).Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, preview),
		m.footer(),
	)
}

func (m model) footer() string {
	info := m.status
	if info == "" {
		filter := m.opts.Sender
		if filter == "" {
			filter = thread.All
		}
		info = fmt.Sprintf("%d chats | sender: %s | me: %s", len(m.results), filter, m.chatSelf)
	}
	return styleStatus.Render(info) + m.help.View(keys)
}
