package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chatview/internal/color"
	"github.com/Zuo-Peng/chatview/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList draws the visible slice of results, padded to height.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		return styleEmpty.Width(width).Height(height).Render("No chats")
	}

	var lines []string
	for i := m.listOffset; i < len(m.results) && len(lines)+linesPerItem <= height; i++ {
		lines = append(lines, formatResultLine(m.results[i], width, i == m.cursor)...)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// shortDate keeps the date part of a "D/M/Y, H:MM" timestamp.
func shortDate(ts string) string {
	if i := strings.IndexByte(ts, ','); i >= 0 {
		return ts[:i]
	}
	return ts
}

func truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if runewidth.StringWidth(s) > max {
		return runewidth.Truncate(s, max, "")
	}
	return s
}

// formatResultLine formats a single result as two lines:
//
//	line 1: [>] date  title
//	line 2:    sender: snippet
func formatResultLine(r search.Result, width int, selected bool) []string {
	date := shortDate(r.Ts)
	title := strings.ReplaceAll(r.Title, "\n", " ")
	title = truncate(title, width-2-runewidth.StringWidth(date)-1)

	line1 := fmt.Sprintf("%s %s", date, styleChatTitle.Render(title))
	if selected {
		line1 = styleCursor.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	snippet := strings.NewReplacer("\n", " ", "\t", " ", ">>>", "", "<<<", "").Replace(r.Snippet)

	sender := ""
	room := width - 4
	if r.Sender != "" {
		name := truncate(r.Sender, room/3)
		room -= runewidth.StringWidth(name) + 2
		sender = lipgloss.NewStyle().
			Foreground(lipgloss.Color(color.ForSender(r.Sender))).
			Render(name) + ": "
	}
	line2 := "    " + sender + styleSnippet.Render(truncate(snippet, room))

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visible := listHeight / linesPerItem
	if visible < 1 {
		visible = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visible {
		m.listOffset = m.cursor - visible + 1
	}
}
