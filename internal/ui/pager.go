package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls pager behavior.
type PagerOptions struct {
	// NoPager disables the pager for this command (--no-pager flag).
	NoPager bool
}

func shouldUsePager(opts PagerOptions) bool {
	if opts.NoPager || IsAgentMode() {
		return false
	}
	if os.Getenv("SCB_NO_PAGER") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// pagerCommand checks SCB_PAGER, then PAGER, defaulting to less.
func pagerCommand() string {
	if pager := os.Getenv("SCB_PAGER"); pager != "" {
		return pager
	}
	if pager := os.Getenv("PAGER"); pager != "" {
		return pager
	}
	return "less"
}

func terminalHeight() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	_, height, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return height
}

// ToPager pipes content through a pager when stdout is a TTY and the
// content does not fit on screen; otherwise it prints directly.
func ToPager(content string, opts PagerOptions) error {
	if !shouldUsePager(opts) {
		fmt.Print(content)
		return nil
	}

	if h := terminalHeight(); h > 0 && strings.Count(content, "\n")+1 <= h-1 {
		fmt.Print(content)
		return nil
	}

	parts := strings.Fields(pagerCommand())
	if len(parts) == 0 {
		fmt.Print(content)
		return nil
	}

	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204 - pager command is user-configurable by design
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// -R keeps ANSI colors, -F quits when the content fits, -X skips the
	// screen clear on exit.
	if os.Getenv("LESS") == "" {
		cmd.Env = append(os.Environ(), "LESS=-RFX")
	} else {
		cmd.Env = os.Environ()
	}
	return cmd.Run()
}
