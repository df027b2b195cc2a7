package cmd

import (
	"context"
	"os"

	"github.com/gratio/oapigen/internal/app"
	"github.com/gratio/oapigen/internal/transpile"
	"github.com/spf13/cobra"
)

var typesEnv = envNames{
	Link:   app.TypesLinkEnv,
	Token:  app.TypesTokenEnv,
	Output: app.TypesOutputEnv,
}

func newGenTypesCmd() *cobra.Command {
	var (
		opts       genOptions
		transpiler string
	)

	cmd := &cobra.Command{
		Use:     "types",
		Aliases: []string{"t"},
		Short:   "Generate TypeScript types from an OpenAPI 3 spec",
		Long: `Generate TypeScript types from an OpenAPI 3 spec.

Type rendering is delegated to an external transpiler (default: "` + transpile.DefaultCommand + `").
The spec is written to a temporary file whose path is appended to the
command; the command's stdout becomes the generated module.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(cmd, &opts, typesEnv)
			commandLine := changedString(cmd, "transpiler")
			if commandLine == "" {
				commandLine = os.Getenv(app.TypesTranspilerEnv)
			}
			err := runGenTypes(s, commandLine)
			return finish(err, "Error generating types", s.silent)
		},
	}

	opts.bind(cmd, typesEnv)
	cmd.Flags().StringVar(&transpiler, "transpiler", "", "transpiler command line ("+app.TypesTranspilerEnv+")")

	return cmd
}

func runGenTypes(s *session, commandLine string) error {
	tr, err := transpile.New(commandLine)
	if err != nil {
		return err
	}
	tr.Timeout = s.opts.timeout

	return s.run(s.cmd.Context(), func(ctx context.Context, text string) (string, error) {
		s.log.Infof("Running %s", tr.Argv[0])
		return tr.Transpile(ctx, text)
	})
}
