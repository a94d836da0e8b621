package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#25D366")
	colorMuted  = lipgloss.Color("243")
	colorFrame  = lipgloss.Color("237")

	stylePrompt = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	styleCursor    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleChatTitle = lipgloss.NewStyle().Bold(true)
	styleSnippet   = lipgloss.NewStyle().Foreground(colorMuted)
	styleEmpty     = lipgloss.NewStyle().Foreground(colorMuted).Align(lipgloss.Center, lipgloss.Center)

	styleListPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFrame)
	stylePreviewPanel = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent)

	styleStatus = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
)
