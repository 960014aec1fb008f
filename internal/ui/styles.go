// Package ui provides terminal styling for scb CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// HeaderStyle for column headers in list output.
var HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// IDStyle for sprint ids.
var IDStyle = lipgloss.NewStyle().Bold(true)

const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconInfo = "ℹ"
)

const SeparatorLight = "──────────────────────────────────────────"

// statusStyles maps the canonical workflow statuses to their display
// style. Custom columns fall back to the accent style.
var statusStyles = map[types.Status]lipgloss.Style{
	types.StatusPlanned: MutedStyle,
	types.StatusActive:  AccentStyle,
	types.StatusReview:  WarnStyle,
	types.StatusDone:    PassStyle,
}

// RenderStatus renders a workflow status with its semantic color.
func RenderStatus(s types.Status) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(string(s))
	}
	return AccentStyle.Render(string(s))
}

// RenderTier renders a tier name, muted for backlog and done.
func RenderTier(tier types.Tier) string {
	if tier == types.TierBoard {
		return AccentStyle.Render(string(tier))
	}
	return MutedStyle.Render(string(tier))
}

func RenderPass(s string) string {
	return PassStyle.Render(s)
}

func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

func RenderFail(s string) string {
	return FailStyle.Render(s)
}

func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderHeader renders a column header in uppercase with accent color.
func RenderHeader(s string) string {
	return HeaderStyle.Render(strings.ToUpper(s))
}

// RenderSeparator renders the light separator line in muted color.
func RenderSeparator() string {
	return MutedStyle.Render(SeparatorLight)
}
