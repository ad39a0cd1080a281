package main

import "github.com/charmbracelet/lipgloss"

const (
	colorGreen  lipgloss.Color = "#a6e3a1"
	colorRed    lipgloss.Color = "#f38ba8"
	colorYellow lipgloss.Color = "#f9e2af"
	colorMuted  lipgloss.Color = "#7f849c"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	connectedStyle    = bannerStyle.Foreground(colorGreen)
	disconnectedStyle = bannerStyle.Foreground(colorRed)
	processingStyle   = lipgloss.NewStyle().Foreground(colorYellow).Italic(true)
	errorStyle        = lipgloss.NewStyle().Foreground(colorRed)
	hintStyle         = lipgloss.NewStyle().Foreground(colorMuted)
)
