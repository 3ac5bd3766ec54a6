// Package export describes a draft in machine-readable formats. Exports are
// read-only views of the draft; nothing is persisted.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/draft"
)

const (
	// FieldIDExtension links a schema property back to its placed field.
	FieldIDExtension = "x-formbuilder-id"
	// FieldKindExtension records the palette kind of a property.
	FieldKindExtension = "x-formbuilder-kind"

	defaultPath        = "/submissions"
	defaultOperationID = "submitContactForm"
	defaultVersion     = "1.0.0"
)

// Option customises the generated document.
type Option func(*config)

type config struct {
	title       string
	version     string
	path        string
	operationID string
}

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(title) != "" {
			cfg.title = title
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(version) != "" {
			cfg.version = version
		}
	}
}

// WithPath sets the submission path.
func WithPath(path string) Option {
	return func(cfg *config) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		cfg.path = path
	}
}

// WithOperationID sets the POST operation id.
func WithOperationID(id string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(id) != "" {
			cfg.operationID = id
		}
	}
}

// OpenAPI builds a validated OpenAPI 3 document with a single POST operation
// whose JSON body has one property per placed field.
func OpenAPI(ctx context.Context, fields []draft.PlacedField, options ...Option) (*openapi3.T, error) {
	cfg := config{
		title:       "Contact Form",
		version:     defaultVersion,
		path:        defaultPath,
		operationID: defaultOperationID,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	body := openapi3.NewObjectSchema()
	body.Title = cfg.title
	body.Required = []string{}
	names := PropertyNames(fields)
	for i, field := range fields {
		prop, err := propertySchema(field)
		if err != nil {
			return nil, err
		}
		body.WithProperty(names[i], prop)
		if field.Required {
			body.Required = append(body.Required, names[i])
		}
	}

	op := openapi3.NewOperation()
	op.OperationID = cfg.operationID
	op.Summary = "Submit " + cfg.title
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(204, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Submission accepted"),
		}),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   cfg.title,
			Version: cfg.version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(cfg.path, &openapi3.PathItem{Post: op})),
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("export: generated document is invalid: %w", err)
	}
	return doc, nil
}

// OpenAPIJSON renders OpenAPI as indented JSON.
func OpenAPIJSON(ctx context.Context, fields []draft.PlacedField, options ...Option) ([]byte, error) {
	doc, err := OpenAPI(ctx, fields, options...)
	if err != nil {
		return nil, err
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode openapi: %w", err)
	}
	return raw, nil
}

func propertySchema(field draft.PlacedField) (*openapi3.Schema, error) {
	var schema *openapi3.Schema
	switch field.Kind {
	case catalog.KindText, catalog.KindTextarea:
		schema = openapi3.NewStringSchema()
	case catalog.KindEmail:
		schema = openapi3.NewStringSchema().WithFormat("email")
	case catalog.KindDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case catalog.KindSelect:
		schema = openapi3.NewStringSchema()
		if len(field.Options) > 0 {
			values := make([]any, 0, len(field.Options))
			seen := make(map[string]bool, len(field.Options))
			for _, option := range field.Options {
				if seen[option] {
					continue
				}
				seen[option] = true
				values = append(values, option)
			}
			schema.WithEnum(values...)
		}
	default:
		return nil, fmt.Errorf("export: field %s: %w: %q", field.ID, catalog.ErrUnknownKind, field.Kind)
	}
	schema.Title = field.Label
	schema.Extensions = map[string]any{
		FieldIDExtension:   field.ID,
		FieldKindExtension: field.Kind.String(),
	}
	return schema, nil
}

// PropertyNames derives stable camelCase property names from field labels,
// suffixing repeats with a counter. Labels without letters or digits fall
// back to the field kind.
func PropertyNames(fields []draft.PlacedField) []string {
	names := make([]string, len(fields))
	seen := make(map[string]int, len(fields))
	for i, field := range fields {
		base := camelCase(field.Label)
		if base == "" {
			base = field.Kind.String()
		}
		seen[base]++
		name := base
		if n := seen[base]; n > 1 {
			name = base + strconv.Itoa(n)
		}
		names[i] = name
	}
	return names
}

func camelCase(label string) string {
	words := strings.FieldsFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		if i > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
	}
	out := b.String()
	if out != "" && unicode.IsDigit([]rune(out)[0]) {
		out = "field" + out
	}
	return out
}
