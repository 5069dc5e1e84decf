package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
}

var st = newStyles()

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		label: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		ok:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
		fail:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
	}
}
