package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Fields []templateFile `yaml:"fields"`
}

type templateFile struct {
	Kind    string   `yaml:"kind"`
	Label   string   `yaml:"label"`
	Options []string `yaml:"options"`
}

// LoadYAML parses a catalog document:
//
//	fields:
//	  - kind: text
//	    label: Full name
//	  - kind: select
//	    label: Topic
//	    options: [Sales, Support]
//
// Unknown keys are rejected so typos surface instead of silently falling back
// to defaults.
func LoadYAML(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("catalog: document is empty")
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc documentFile
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, errors.New("catalog: document declares no fields")
	}

	templates := make([]FieldTemplate, 0, len(doc.Fields))
	for i, raw := range doc.Fields {
		kind, err := ParseFieldKind(raw.Kind)
		if err != nil {
			return nil, fmt.Errorf("catalog: fields[%d]: %w", i, err)
		}
		options := make([]string, 0, len(raw.Options))
		for _, option := range raw.Options {
			if trimmed := strings.TrimSpace(option); trimmed != "" {
				options = append(options, trimmed)
			}
		}
		tpl, err := NewFieldTemplate(kind, strings.TrimSpace(raw.Label), options...)
		if err != nil {
			return nil, fmt.Errorf("catalog: fields[%d]: %w", i, err)
		}
		templates = append(templates, tpl)
	}

	return New(templates...)
}

// LoadFile reads and parses a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return c, nil
}

// LoadFS reads a catalog document from fsys.
func LoadFS(fsys fs.FS, name string) (*Catalog, error) {
	if fsys == nil {
		return nil, errors.New("catalog: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", name, err)
	}
	c, err := LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, name)
	}
	return c, nil
}
