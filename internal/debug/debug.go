package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	enabled     = os.Getenv("SCB_DEBUG") != ""
	verboseMode = false
	quietMode   = false
	logMutex    sync.Mutex
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet suppresses non-essential output.
func SetQuiet(quiet bool) {
	quietMode = quiet
}

func IsQuiet() bool {
	return quietMode
}

// Logf writes to stderr when debugging is on.
func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// PrintNormal prints informational output unless quiet mode is enabled.
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}

// LogEvent appends a lifecycle event to .canvas/events.log in the
// enclosing project. Format: TIMESTAMP|EVENT|SPRINT_ID|ACTOR|DETAILS.
// Fails silently; event logging never interrupts an operation.
func LogEvent(event, sprintID, details string) {
	root, err := findProjectRoot()
	if err != nil {
		return
	}
	logPath := filepath.Join(root, ".canvas", "events.log")

	if sprintID == "" {
		sprintID = "none"
	}
	actor := os.Getenv("SCB_ACTOR")
	if actor == "" {
		actor = os.Getenv("USER")
		if actor == "" {
			actor = "unknown"
		}
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	entry := fmt.Sprintf("%s|%s|%s|%s|%s\n", timestamp, event, sprintID, actor, details)

	logMutex.Lock()
	defer logMutex.Unlock()

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	file.WriteString(entry)
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		canvasDir := filepath.Join(dir, ".canvas")
		if info, err := os.Stat(canvasDir); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not inside a canvas project")
		}
		dir = parent
	}
}
