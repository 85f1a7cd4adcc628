package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"zootopia/internal/catalog"
)

// Zootopia theme (CLI + TUI).

const (
	IconZoo     = "🏞️"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrash   = "🗑️"
	IconGift    = "🎁"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconChat    = "💬"
	IconTask    = "🌱"
	IconHeart   = "💗"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)

	BadgeTierUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("GROWN UP")
)

var tierStyles = map[int]lipgloss.Style{
	1: Muted,
	2: H2,
	3: Good,
	4: Gold,
}

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// TierText renders a growth tier name coloured by tier.
func TierText(tier int, name string) string {
	st, ok := tierStyles[tier]
	if !ok {
		st = Muted
	}
	return st.Render(fmt.Sprintf("T%d %s", tier, name))
}

// Bar renders a fixed-width progress bar for a 0-100 percent.
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

func CompanionIcon(t catalog.CompanionType) string {
	if def, ok := catalog.Companion(t); ok {
		return def.Emoji
	}
	return "🐾"
}

func WeatherIcon(m catalog.WeatherMood) string {
	if w, ok := catalog.Weather(m); ok {
		return w.Emoji
	}
	return "☀️"
}

// TaskState renders the two task axes as one short label.
func TaskState(completed, deleted bool) string {
	switch {
	case deleted && completed:
		return Muted.Render("done, deleted")
	case deleted:
		return Muted.Render("deleted")
	case completed:
		return Good.Render("done")
	default:
		return Warn.Render("open")
	}
}
