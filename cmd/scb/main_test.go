package main

import "testing"

func TestConfigSkippedOutsideBoard(t *testing.T) {
	// Commands that must work outside a project: the bare root (help,
	// --version) and the bootstrap commands.
	for _, name := range []string{rootCmd.Name(), "init", "version", "help", "completion"} {
		if !noConfigCommands[name] {
			t.Errorf("%q should run without a project configuration", name)
		}
	}
	if noConfigCommands["list"] {
		t.Error("board commands must load the configuration")
	}
}
