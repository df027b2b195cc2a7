package cmd

import (
	"github.com/gratio/oapigen/internal/app"
	"github.com/spf13/cobra"
)

// NewRoot builds the top-level `oapigen` command.
//
// We keep errors/usage silent and let our main() decide how to print ExitResult vs generic errors.
func NewRoot(version string) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "oapigen",
		Short:         "Generate TypeScript modules from OpenAPI 3 specifications",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadEnvFile(envFile); err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", app.DefaultEnvFile, "load environment variables from this file when present")

	root.AddGroup(
		&cobra.Group{ID: "generate", Title: "code generation"},
		&cobra.Group{ID: "credentials", Title: "credentials"},
	)

	genCmd := newGenCmd()
	genCmd.GroupID = "generate"

	tokenCmd := newTokenCmd()
	tokenCmd.GroupID = "credentials"

	root.AddCommand(genCmd, tokenCmd)

	return root
}
