package render

import (
	"strings"

	"github.com/gratio/oapigen/internal/openapi"
)

// Placeholder keys understood by EndpointsTemplate.
const (
	EndpointsKey = "endpoints"
	ResponsesKey = "responses"
)

// EndpointsTemplate is the default module layout for `gen endpoints`.
const EndpointsTemplate = `export interface ApiResponse {
  path: string;
  method: string;
  status: string;
}

export enum Endpoint {
{{endpoints}}
};

export const EndpointResponse = {
{{responses}}
};
`

// Endpoints renders endpoints into the default module layout.
func Endpoints(endpoints []openapi.Endpoint) string {
	return EndpointsWith(NewTemplate(EndpointsTemplate), endpoints)
}

// EndpointsWith fills the {{endpoints}} and {{responses}} placeholders of t.
func EndpointsWith(t *Template, endpoints []openapi.Endpoint) string {
	return t.
		Fill(EndpointsKey, EnumMembers(endpoints)).
		Fill(ResponsesKey, ResponseMap(endpoints)).
		String()
}

// EnumMembers renders one enum member per endpoint, in order.
func EnumMembers(endpoints []openapi.Endpoint) string {
	lines := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		lines = append(lines, "  "+ep.Name+",")
	}
	return strings.Join(lines, "\n")
}

// ResponseMap renders the Endpoint -> {path, method, status} entries.
func ResponseMap(endpoints []openapi.Endpoint) string {
	blocks := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		blocks = append(blocks, strings.Join([]string{
			"  [Endpoint." + ep.Name + "]: {",
			"    path: " + quote(ep.Path) + ",",
			"    method: " + quote(ep.Method) + ",",
			"    status: " + quote(ep.Status) + ",",
			"  } as const,",
		}, "\n"))
	}
	return strings.Join(blocks, "\n")
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quote returns s as a single-quoted string literal.
func quote(s string) string {
	return "'" + quoteEscaper.Replace(s) + "'"
}
