package tui

// OutputFormat controls how the form view is serialized.
type OutputFormat string

const (
	// OutputFormatPrettyText emits a human-friendly terminal preview.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatJSON emits the form model as indented JSON.
	OutputFormatJSON OutputFormat = "json"
)

// Theme captures optional prefixes applied to printed lines. Keep minimal to
// avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PromptPrefix   string
	BulletPrefix   string
	RequiredMarker string
}

// DefaultTheme is used when no theme option is supplied.
var DefaultTheme = Theme{
	PromptPrefix:   "? ",
	BulletPrefix:   "  - ",
	RequiredMarker: "*",
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies optional line prefixes. Empty members keep defaults.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		if theme.PromptPrefix != "" {
			r.theme.PromptPrefix = theme.PromptPrefix
		}
		if theme.BulletPrefix != "" {
			r.theme.BulletPrefix = theme.BulletPrefix
		}
		if theme.RequiredMarker != "" {
			r.theme.RequiredMarker = theme.RequiredMarker
		}
	}
}
