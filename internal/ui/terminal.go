package ui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsAgentMode reports whether output is being consumed by an automation
// agent rather than a human. Agents get plain, stable text: no color, no
// markdown rendering, no pager.
func IsAgentMode() bool {
	return os.Getenv("SCB_AGENT") != ""
}

// ShouldUseColor decides whether styled output is appropriate, honoring
// the conventional environment overrides in precedence order: NO_COLOR
// always wins, CLICOLOR_FORCE forces color even when piped, CLICOLOR=0
// opts out, and otherwise color requires a capable TTY.
func ShouldUseColor() bool {
	if IsAgentMode() {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}
