package app

import (
	"os"

	"golang.org/x/term"
)

// RuntimeContext captures the process-level facts that gate prompting and
// console output. Build it once per command and pass it down.
type RuntimeContext struct {
	Interactive bool // stdin is a terminal
	CI          bool
	Production  bool
}

// RuntimeFromEnv derives a RuntimeContext from the environment and stdin.
func RuntimeFromEnv() RuntimeContext {
	return RuntimeContext{
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		CI:          os.Getenv(CIEnv) == "true",
		Production:  os.Getenv(ModeEnv) == ProductionMode,
	}
}

// CanPrompt reports whether the operator may be asked for missing values.
// promptFlag is the value of --prompt.
func (rc RuntimeContext) CanPrompt(promptFlag bool) bool {
	return promptFlag && !rc.CI && !rc.Production
}

// Silent reports whether non-error console output is suppressed.
func (rc RuntimeContext) Silent(silentFlag bool) bool {
	return silentFlag || rc.Production
}
