package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
)

// outputJSON pretty-prints v to stdout.
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// fail reports an operation failure and exits non-zero. In JSON mode the
// full fault envelope goes to stderr so automation can branch on the code
// and recoverable flag; otherwise the message and hint are styled for a
// human.
func fail(err error) {
	if jsonOutput {
		encoder := json.NewEncoder(os.Stderr)
		encoder.SetIndent("", "  ")
		if f, ok := fault.As(err); ok {
			_ = encoder.Encode(map[string]interface{}{"error": f})
		} else {
			_ = encoder.Encode(map[string]string{"error": err.Error()})
		}
		os.Exit(1)
	}

	if f, ok := fault.As(err); ok {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", ui.RenderFail(ui.IconFail), f.Code, f.Message)
		if f.Hint != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", ui.RenderMuted("hint: "+f.Hint))
		}
	} else {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail(ui.IconFail), err)
	}
	os.Exit(1)
}
