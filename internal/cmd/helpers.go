package cmd

import (
	"io"
	"os"

	"github.com/gratio/oapigen/internal/app"
	"github.com/gratio/oapigen/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// changedString returns the flag value only when the user set it explicitly,
// so environment fallbacks apply to defaulted flags.
func changedString(c *cobra.Command, name string) string {
	if !c.Flags().Changed(name) {
		return ""
	}
	v, _ := c.Flags().GetString(name)
	return v
}

// stdoutHighlighter returns a TypeScript highlighter when w is a color
// terminal, nil otherwise.
func stdoutHighlighter(w io.Writer) func(string) string {
	f, ok := w.(*os.File)
	if !ok || !app.ColorEnabled() || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return render.HighlightTypeScript
}

// finish maps a pipeline error onto the exit contract. Silent runs drop the
// SourceUnavailable warning; errors are always reported.
func finish(err error, prefix string, silent bool) error {
	if err == nil {
		return nil
	}
	if silent && app.IsKind(err, app.KindSourceUnavailable) {
		return nil
	}
	return app.ToExit(err, prefix)
}
