package app

import "errors"

// ExitResult lets CLI handlers control exit code + whether output goes to stderr.
// This keeps command output clean while still using `error` as the control flow.
// Note: ExitResult is also used for successful output (Code: 0), e.g. the
// soft no-op when no spec source is available.
type ExitResult struct {
	Code     int
	Message  string
	ToStderr bool
}

func (e ExitResult) Error() string   { return e.Message }
func (e ExitResult) ExitCode() int   { return e.Code }
func (e ExitResult) UseStderr() bool { return e.ToStderr }

// usageExit creates an ExitResult for usage errors (code 2, stderr).
func usageExit(message string) error {
	return ExitResult{Code: 2, Message: message, ToStderr: true}
}

// ToExit maps a pipeline error onto the process exit contract.
// SourceUnavailable is a graceful no-op (code 0, warning on stderr); every
// other failure is fatal (code 1). prefix names the command that failed.
func ToExit(err error, prefix string) error {
	if err == nil {
		return nil
	}
	var exit ExitResult
	if errors.As(err, &exit) {
		return exit
	}
	if IsKind(err, KindSourceUnavailable) {
		return ExitResult{Code: 0, Message: Styles.Warning.Render(err.Error()), ToStderr: true}
	}
	msg := err.Error()
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	return ExitResult{Code: 1, Message: Styles.Error.Render(msg), ToStderr: true}
}
