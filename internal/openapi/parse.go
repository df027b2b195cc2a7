// Package openapi parses OpenAPI 3 documents into an order-preserving tree
// and extracts the endpoint list used by the generators.
package openapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gratio/oapigen/internal/app"
	"gopkg.in/yaml.v3"
)

// refKey marks a reference object.
const refKey = "$ref"

// Document is a parsed spec. Paths keep their declaration order.
type Document struct {
	OpenAPI string
	Paths   []PathItem
}

// PathItem is one entry of the document's paths object.
type PathItem struct {
	Path string
	Node *yaml.Node
}

// Parse deserializes JSON or YAML spec text. JSON input (text starting with
// '{') is decoded token by token so key order survives; anything else goes
// through yaml.v3. A repeated key keeps its first position and takes the
// last value, as JSON.parse does.
func Parse(text string) (*Document, error) {
	root, err := parseTree(text)
	if err != nil {
		return nil, app.ParseError(err, "parse spec")
	}
	if root.Kind != yaml.MappingNode {
		return nil, app.ParseError(nil, "parse spec: document root must be an object")
	}

	doc := &Document{}
	if v := lookup(root, "openapi"); v != nil && v.Kind == yaml.ScalarNode {
		doc.OpenAPI = v.Value
	}

	paths := lookup(root, "paths")
	if paths == nil || paths.Kind != yaml.MappingNode {
		return doc, nil
	}
	for i := 0; i+1 < len(paths.Content); i += 2 {
		doc.Paths = append(doc.Paths, PathItem{
			Path: paths.Content[i].Value,
			Node: resolve(paths.Content[i+1]),
		})
	}
	return doc, nil
}

func parseTree(text string) (*yaml.Node, error) {
	if strings.HasPrefix(strings.TrimSpace(text), "{") {
		return parseJSON(text)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}
	root := resolve(doc.Content[0])
	collapseDuplicateKeys(root)
	return root, nil
}

// collapseDuplicateKeys folds repeated mapping keys in place: the first
// occurrence keeps its position and receives the last value. Decoding into
// a yaml.Node keeps every duplicate.
func collapseDuplicateKeys(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.MappingNode:
		index := make(map[string]int, len(n.Content)/2)
		content := n.Content[:0]
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			collapseDuplicateKeys(v)
			if k.Kind == yaml.ScalarNode {
				if at, ok := index[k.Value]; ok {
					content[at+1] = v
					continue
				}
				index[k.Value] = len(content)
			}
			content = append(content, k, v)
		}
		n.Content = content
	case yaml.SequenceNode, yaml.DocumentNode:
		for _, c := range n.Content {
			collapseDuplicateKeys(c)
		}
	}
}

func parseJSON(text string) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	node, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return node, nil
}

func decodeJSONValue(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			index := map[string]int{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("invalid object key %v", kt)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				if at, ok := index[key]; ok {
					node.Content[at+1] = val
					continue
				}
				index[key] = len(node.Content)
				node.Content = append(node.Content, scalar("!!str", key), val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		case '[':
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case string:
		return scalar("!!str", v), nil
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return scalar("!!float", v.String()), nil
		}
		return scalar("!!int", v.String()), nil
	case bool:
		return scalar("!!bool", fmt.Sprint(v)), nil
	case nil:
		return scalar("!!null", "null"), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// resolve follows YAML aliases.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// lookup returns the value stored under key in a mapping node, or nil.
func lookup(n *yaml.Node, key string) *yaml.Node {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolve(n.Content[i+1])
		}
	}
	return nil
}

// keys returns the keys of a mapping node in declaration order.
func keys(n *yaml.Node) []string {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, n.Content[i].Value)
	}
	return out
}

// IsReference reports whether node is an object carrying a $ref pointer.
func IsReference(node *yaml.Node) bool {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == refKey {
			return true
		}
	}
	return false
}
