package openapi

import (
	"regexp"
	"strings"

	"github.com/gratio/oapigen/internal/app"
	"gopkg.in/yaml.v3"
)

// Methods is the set of HTTP method keys recognized under a path item.
var Methods = []string{"get", "post", "put", "delete", "patch", "options", "head"}

// DefaultStatus is used when an operation declares no 2xx response.
const DefaultStatus = "200"

// Endpoint is one (path, method) pair with its generated enum name and the
// first declared success status.
type Endpoint struct {
	Path   string
	Method string
	Name   string
	Status string
}

// segmentSep splits paths on non-word characters and underscores.
var segmentSep = regexp.MustCompile(`[^0-9A-Za-z]+`)

func isMethod(key string) bool {
	lower := strings.ToLower(key)
	for _, m := range Methods {
		if m == lower {
			return true
		}
	}
	return false
}

// ExtractEndpoints walks doc in declaration order and returns one Endpoint
// per recognized (path, method) pair. References are never followed: a
// referenced path item or operation is treated as an operation without
// responses.
func ExtractEndpoints(doc *Document) ([]Endpoint, error) {
	if doc == nil || len(doc.Paths) == 0 {
		return nil, app.UsageError("no paths found in the OpenAPI spec")
	}

	var out []Endpoint
	for _, item := range doc.Paths {
		itemIsRef := IsReference(item.Node)
		for _, method := range keys(item.Node) {
			if !isMethod(method) {
				continue
			}
			var op *yaml.Node
			if !itemIsRef {
				op = lookup(item.Node, method)
				if IsReference(op) {
					op = nil
				}
			}
			out = append(out, Endpoint{
				Path:   item.Path,
				Method: method,
				Name:   EndpointName(item.Path, method),
				Status: SuccessStatus(op),
			})
		}
	}
	return out, nil
}

// EndpointName builds the enum identifier for a path and method:
// "/users/{id}" + "post" -> "PostUsersId".
func EndpointName(path, method string) string {
	var sb strings.Builder
	sb.WriteString(capitalize(method))
	for _, seg := range segmentSep.Split(path, -1) {
		if seg == "" {
			continue
		}
		sb.WriteString(capitalize(seg))
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SuccessStatus returns the first response key of op starting with "2",
// scanning in declaration order, or DefaultStatus.
func SuccessStatus(op *yaml.Node) string {
	for _, code := range keys(lookup(op, "responses")) {
		if strings.HasPrefix(code, "2") {
			return code
		}
	}
	return DefaultStatus
}

// Collision groups endpoints that share a generated name.
type Collision struct {
	Name      string
	Endpoints []Endpoint
}

// FindCollisions reports names produced by more than one endpoint, in order
// of first appearance.
func FindCollisions(endpoints []Endpoint) []Collision {
	byName := map[string][]Endpoint{}
	var order []string
	for _, ep := range endpoints {
		if _, ok := byName[ep.Name]; !ok {
			order = append(order, ep.Name)
		}
		byName[ep.Name] = append(byName[ep.Name], ep)
	}

	var out []Collision
	for _, name := range order {
		if eps := byName[name]; len(eps) > 1 {
			out = append(out, Collision{Name: name, Endpoints: eps})
		}
	}
	return out
}
