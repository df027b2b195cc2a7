package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gratio/oapigen/internal/app"
	"github.com/gratio/oapigen/internal/cmd"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := cmd.NewRoot(version)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return 0
	}

	var exit app.ExitResult
	if errors.As(err, &exit) {
		if exit.Message != "" {
			if exit.UseStderr() {
				fmt.Fprintln(os.Stderr, exit.Message)
			} else {
				fmt.Fprintln(os.Stdout, exit.Message)
			}
		}
		return exit.ExitCode()
	}

	// Flag parsing and argument validation errors from cobra.
	fmt.Fprintln(os.Stderr, app.Styles.Error.Render("Error: "+err.Error()))
	return 2
}
