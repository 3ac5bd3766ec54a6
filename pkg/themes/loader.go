package themes

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

// LoadManifest decodes a YAML theme manifest. Unknown keys are rejected.
func LoadManifest(r io.Reader) (*theme.Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc manifestFile
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("themes: manifest is empty")
		}
		return nil, fmt.Errorf("themes: decode manifest: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("themes: manifest name is required")
	}
	if doc.Version == "" {
		doc.Version = "0.0.0"
	}

	manifest := &theme.Manifest{
		Name:      doc.Name,
		Version:   doc.Version,
		Tokens:    doc.Tokens,
		Templates: doc.Templates,
		Assets:    theme.Assets{Prefix: doc.Assets.Prefix, Files: doc.Assets.Files},
	}
	if len(doc.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(doc.Variants))
		for name, variant := range doc.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadManifestFile reads a manifest from disk.
func LoadManifestFile(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("themes: read %s: %w", path, err)
	}
	return LoadManifest(bytes.NewReader(data))
}

// LoadManifestFS reads a manifest from an fs.FS.
func LoadManifestFS(fsys fs.FS, name string) (*theme.Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("themes: read %s: %w", name, err)
	}
	return LoadManifest(bytes.NewReader(data))
}
