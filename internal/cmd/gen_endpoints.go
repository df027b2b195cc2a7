package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/gratio/oapigen/internal/app"
	"github.com/gratio/oapigen/internal/openapi"
	"github.com/gratio/oapigen/internal/render"
	"github.com/spf13/cobra"
)

var endpointsEnv = envNames{
	Link:   app.EndpointsLinkEnv,
	Token:  app.EndpointsTokenEnv,
	Output: app.EndpointsOutputEnv,
}

func newGenEndpointsCmd() *cobra.Command {
	var (
		opts            genOptions
		templatePath    string
		allowDuplicates bool
	)

	cmd := &cobra.Command{
		Use:     "endpoints",
		Aliases: []string{"ep"},
		Short:   "Generate an Endpoint enum with response data from an OpenAPI 3 spec",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(cmd, &opts, endpointsEnv)
			err := runGenEndpoints(s, templatePath, allowDuplicates)
			return finish(err, "Error generating endpoints", s.silent)
		},
	}

	opts.bind(cmd, endpointsEnv)
	cmd.Flags().StringVar(&templatePath, "template", "", "template file with {{endpoints}} and {{responses}} placeholders")
	cmd.Flags().BoolVar(&allowDuplicates, "allow-duplicates", false, "emit endpoints whose generated names collide instead of failing")

	return cmd
}

func runGenEndpoints(s *session, templatePath string, allowDuplicates bool) error {
	tmpl := render.NewTemplate(render.EndpointsTemplate)
	if templatePath != "" {
		var err error
		tmpl, err = render.LoadTemplate(templatePath)
		if err != nil {
			return app.FilesystemError(err, "load template")
		}
	}

	return s.run(s.cmd.Context(), func(_ context.Context, text string) (string, error) {
		doc, err := openapi.Parse(text)
		if err != nil {
			return "", err
		}
		if err := openapi.CheckVersion(doc); err != nil {
			s.log.Warnf("warning: %v", err)
		}

		endpoints, err := openapi.ExtractEndpoints(doc)
		if err != nil {
			return "", err
		}
		if collisions := openapi.FindCollisions(endpoints); len(collisions) > 0 {
			if !allowDuplicates {
				return "", app.UsageError("%s", describeCollisions(collisions))
			}
			s.log.Warnf("warning: %s", describeCollisions(collisions))
		}

		s.log.Infof("Generated %d endpoints", len(endpoints))
		return render.EndpointsWith(render.NewTemplate(tmpl.String()), endpoints), nil
	})
}

func describeCollisions(collisions []openapi.Collision) string {
	var sb strings.Builder
	sb.WriteString("generated endpoint names collide (use --allow-duplicates to emit them anyway):")
	for _, c := range collisions {
		pairs := make([]string, 0, len(c.Endpoints))
		for _, ep := range c.Endpoints {
			pairs = append(pairs, fmt.Sprintf("%s %s", strings.ToUpper(ep.Method), ep.Path))
		}
		sb.WriteString("\n  ")
		sb.WriteString(c.Name)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(pairs, ", "))
	}
	return sb.String()
}
