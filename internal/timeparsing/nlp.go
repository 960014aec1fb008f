package timeparsing

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var nlParser = newNLParser()

func newNLParser() *when.Parser {
	p := when.New(nil)
	p.Add(en.All...)
	p.Add(common.All...)
	return p
}

// ParseNaturalLanguage resolves English phrases like "tomorrow",
// "next monday at 2pm", or "3 days ago" against the reference time.
// The whole input must be a time expression; surrounding prose is
// rejected rather than guessed at.
func ParseNaturalLanguage(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	r, err := nlParser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("no time expression in %q", s)
	}
	if strings.TrimSpace(s[:r.Index]) != "" || strings.TrimSpace(s[r.Index+len(r.Text):]) != "" {
		return time.Time{}, fmt.Errorf("%q is not purely a time expression", s)
	}
	return r.Time, nil
}
