package app

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// ResolveOutput picks the artifact destination: flag, then environment,
// then the stdout sentinel. flagValue is "" when --output was not given.
func ResolveOutput(flagValue, envName string, getenv func(string) string) string {
	if flagValue != "" {
		return flagValue
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(envName); v != "" {
		return v
	}
	return StdoutTarget
}

// EmitOptions controls where a generated artifact goes.
type EmitOptions struct {
	Target string // file path or StdoutTarget
	Check  bool   // compare against Target instead of writing
	Copy   bool   // also copy to the clipboard
	Silent bool   // drop the stdout print; files are still written

	Stdout io.Writer
	// Highlight decorates text printed to Stdout. Optional.
	Highlight func(string) string
	Logger    Logger
}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// Emit prints or writes text according to opts. A file target is fully
// overwritten; missing directories are created first.
func Emit(text string, opts EmitOptions) error {
	log := opts.Logger
	if log == nil {
		log = NopLogger{}
	}

	if opts.Copy {
		if err := copyToClipboard(text); err != nil {
			log.Warnf("could not copy to clipboard: %v", err)
		} else {
			log.Infof("Copied to clipboard")
		}
	}

	if opts.Target == StdoutTarget || opts.Target == "" {
		if opts.Check {
			return usageExit("--check requires a file output target")
		}
		if opts.Silent {
			return nil
		}
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		printed := text
		if opts.Highlight != nil {
			printed = opts.Highlight(text)
		}
		_, err := fmt.Fprintln(out, printed)
		return err
	}

	if opts.Check {
		return checkFile(opts.Target, []byte(text), log)
	}

	if err := AtomicWriteFile(opts.Target, []byte(text), FilePerm); err != nil {
		log.Errorf("✖ %s", opts.Target)
		return FilesystemError(err, "write %s", opts.Target)
	}
	log.Successf("%s", opts.Target)
	return nil
}

// checkFile fails when path is missing or differs from want.
func checkFile(path string, want []byte, log Logger) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ExitResult{Code: 1, Message: fmt.Sprintf("check failed: %s would be created", path), ToStderr: true}
		}
		return FilesystemError(err, "read %s", path)
	}
	if !bytes.Equal(existing, want) {
		return ExitResult{Code: 1, Message: fmt.Sprintf("check failed: %s is out of date", path), ToStderr: true}
	}
	log.Successf("%s is up to date", path)
	return nil
}
