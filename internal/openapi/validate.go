package openapi

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gratio/oapigen/internal/app"
)

// SupportedVersions is the range of OpenAPI versions the generators target.
const SupportedVersions = "^3.0.0"

// CheckVersion returns an error when the document's openapi field is
// missing or outside SupportedVersions. Callers treat it as a warning.
func CheckVersion(doc *Document) error {
	if doc.OpenAPI == "" {
		return fmt.Errorf("document has no openapi version field")
	}
	v, err := semver.NewVersion(doc.OpenAPI)
	if err != nil {
		return fmt.Errorf("invalid openapi version %q: %w", doc.OpenAPI, err)
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("openapi version %s is not %s", doc.OpenAPI, SupportedVersions)
	}
	return nil
}

// Validate loads text with kin-openapi and runs its structural validation.
// External references are not fetched.
func Validate(ctx context.Context, text string) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData([]byte(text))
	if err != nil {
		return app.ParseError(err, "load OpenAPI document")
	}
	if err := doc.Validate(loader.Context); err != nil {
		return app.ParseError(err, "OpenAPI validation error")
	}
	return nil
}
