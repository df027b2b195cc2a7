package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/gratio/oapigen/internal/app"
	"github.com/gratio/oapigen/internal/openapi"
	"github.com/gratio/oapigen/internal/watch"
	"github.com/spf13/cobra"
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate modules from an OpenAPI 3 specification",
		Long: `Generate TypeScript modules from an OpenAPI 3 specification.

The spec is taken from --link, the command's LINK environment variable, or
an interactive prompt. URLs are fetched without credentials first; when
that fails a token is resolved from --token, the TOKEN environment
variable, the OS keychain, or a prompt, and the fetch is retried once.`,
	}

	cmd.AddCommand(
		newGenEndpointsCmd(),
		newGenTypesCmd(),
	)

	return cmd
}

// envNames is the environment namespace of one generation command.
type envNames struct {
	Link   string
	Token  string
	Output string
}

// genOptions holds the flags shared by the generation commands.
type genOptions struct {
	silent    bool
	prompt    bool
	link      string
	token     string
	output    string
	saveToken bool
	validate  bool
	check     bool
	copy      bool
	watch     bool
	timeout   time.Duration
}

func (o *genOptions) bind(cmd *cobra.Command, env envNames) {
	f := cmd.Flags()
	f.BoolVarP(&o.silent, "silent", "s", false, "suppress all console output except errors")
	f.BoolVarP(&o.prompt, "prompt", "p", true, "prompt for missing information like the spec link or token")
	f.StringVarP(&o.link, "link", "l", "", "URL or path of the OpenAPI spec ("+env.Link+")")
	f.StringVarP(&o.token, "token", "P", "", "personal access token with api scope ("+env.Token+")")
	f.StringVarP(&o.output, "output", "o", app.StdoutTarget, "output path for the generated file ("+env.Output+")")
	f.BoolVar(&o.saveToken, "save-token", false, "store the resolved token in the OS keychain")
	f.BoolVar(&o.validate, "validate", false, "validate the spec before generating")
	f.BoolVar(&o.check, "check", false, "fail if the output file is out of date instead of writing it")
	f.BoolVar(&o.copy, "copy", false, "also copy the generated module to the clipboard")
	f.BoolVarP(&o.watch, "watch", "w", false, "regenerate whenever a local spec file changes")
	f.DurationVar(&o.timeout, "timeout", 0, "bound each network fetch and transpiler run (0 = no limit)")
}

// session wires the pipeline collaborators for one invocation.
type session struct {
	cmd      *cobra.Command
	opts     *genOptions
	env      envNames
	silent   bool
	log      app.Logger
	resolver *app.Resolver
	fetcher  *app.Fetcher
}

func newSession(cmd *cobra.Command, opts *genOptions, env envNames) *session {
	rc := app.RuntimeFromEnv()
	silent := rc.Silent(opts.silent)
	log := app.NewLogger(silent, cmd.ErrOrStderr(), cmd.ErrOrStderr())

	resolver := &app.Resolver{
		Runtime:   rc,
		Prompt:    opts.prompt,
		Prompter:  app.NewPrompter(rc, cmd.InOrStdin(), cmd.ErrOrStderr()),
		Tokens:    tokenStore,
		Logger:    log,
		SaveToken: opts.saveToken,
	}

	s := &session{
		cmd:      cmd,
		opts:     opts,
		env:      env,
		silent:   silent,
		log:      log,
		resolver: resolver,
	}
	s.fetcher = &app.Fetcher{
		Timeout: opts.timeout,
		Logger:  log,
		Token: func(host string) (string, error) {
			return resolver.ResolveToken(changedString(cmd, "token"), env.Token, host)
		},
	}
	return s
}

// generator turns spec text into the module to emit.
type generator func(ctx context.Context, spec string) (string, error)

// run resolves the spec location and generates once, then again on every
// change when --watch is set.
func (s *session) run(ctx context.Context, gen generator) error {
	link, err := s.resolver.ResolveLink(changedString(s.cmd, "link"), s.env.Link)
	if err != nil {
		return err
	}
	if s.opts.watch && app.IsURL(link) {
		return app.UsageError("--watch requires a local spec file, got %s", app.DescribeSource(link))
	}

	once := func() error {
		text, err := s.fetchSpec(ctx, link)
		if err != nil {
			return err
		}
		out, err := gen(ctx, text)
		if err != nil {
			return err
		}
		return s.emit(out)
	}
	if err := once(); err != nil {
		return err
	}
	if !s.opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := watch.NewFileWatcher(link, 0)
	if err != nil {
		return app.FilesystemError(err, "watch %s", link)
	}
	s.log.Infof("Watching %s for changes (Ctrl+C to stop)", link)
	err = w.Run(ctx, func() {
		if err := once(); err != nil {
			s.log.Errorf("%v", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// fetchSpec returns the text behind link, validated when --validate is set.
func (s *session) fetchSpec(ctx context.Context, link string) (string, error) {
	s.log.Infof("Reading spec from %s", app.DescribeSource(link))

	text, err := s.fetcher.FetchSpecContents(ctx, link)
	if err != nil {
		return "", err
	}
	if s.opts.validate {
		if err := openapi.Validate(ctx, text); err != nil {
			return "", err
		}
	}
	return text, nil
}

// emit prints or writes the generated text.
func (s *session) emit(text string) error {
	return app.Emit(text, app.EmitOptions{
		Target:    app.ResolveOutput(changedString(s.cmd, "output"), s.env.Output, nil),
		Check:     s.opts.check,
		Copy:      s.opts.copy,
		Silent:    s.silent,
		Stdout:    s.cmd.OutOrStdout(),
		Highlight: stdoutHighlighter(s.cmd.OutOrStdout()),
		Logger:    s.log,
	})
}
