package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gratio/oapigen/internal/app"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// tokenStore is swapped out in tests.
var tokenStore app.TokenStore = app.KeychainStore{}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage access tokens stored in the OS keychain",
		Long: `Manage access tokens stored in the OS keychain.

Tokens are keyed by host (e.g. gitlab.example.com). The generation
commands consult the keychain after --token and the TOKEN environment
variable, before prompting.`,
	}

	cmd.AddCommand(
		newTokenSetCmd(),
		newTokenClearCmd(),
	)

	return cmd
}

func newTokenSetCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "set <host>",
		Short: "Store a token for a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := args[0]
			if token == "" {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return app.ExitResult{Code: 2, Message: "--token is required when stdin is not a terminal", ToStderr: true}
				}
				var err error
				token, err = promptSecret(fmt.Sprintf("Token for %s: ", host))
				if err != nil {
					return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
				}
			}
			if err := tokenStore.Set(host, token); err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			return app.ExitResult{Code: 0, Message: "Saved token for " + app.Styles.Key.Render(host), ToStderr: false}
		},
	}

	cmd.Flags().StringVarP(&token, "token", "P", "", "token value (prompted with no echo when omitted)")

	return cmd
}

func newTokenClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear <host>",
		Aliases: []string{"rm"},
		Short:   "Remove the stored token for a host",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tokenStore.Delete(args[0]); err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			return app.ExitResult{Code: 0, Message: "Removed token for " + app.Styles.Key.Render(args[0]), ToStderr: false}
		},
	}
}

// promptSecret prompts for a secret value with no echo.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	val := strings.TrimSpace(string(b))
	if val == "" {
		return "", fmt.Errorf("empty value")
	}
	return val, nil
}
