// Package tui renders the builder for terminal sessions: a plain-text preview
// of the drop zone, optionally preceded by the palette and the open prompt.
package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// EmptyPlaceholder is printed in place of fields while the draft is empty.
const EmptyPlaceholder = "Drag elements here..."

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (pretty text output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatPrettyText,
		theme:        DefaultTheme,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch r.outputFormat {
	case OutputFormatJSON:
		payload, err := json.MarshalIndent(form, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode form: %w", err)
		}
		return append(payload, '\n'), nil
	case OutputFormatPrettyText:
		return r.pretty(form, opts.Fragment)
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
}

func (r *Renderer) pretty(form model.FormModel, fragment render.Fragment) ([]byte, error) {
	var buf bytes.Buffer

	if fragment != render.FragmentPreview {
		buf.WriteString("Drag Elements\n")
		for _, entry := range form.Palette {
			line := r.theme.BulletPrefix + entry.Label
			if entry.Dragging {
				line += " (dragging)"
			}
			buf.WriteString(line + "\n")
		}
		buf.WriteString("\n")
	}

	heading := form.Title
	if form.Hover {
		heading += " [drop here]"
	}
	buf.WriteString(heading + "\n")
	buf.WriteString(strings.Repeat("=", len(heading)) + "\n")

	if form.Empty {
		buf.WriteString(EmptyPlaceholder + "\n")
	} else {
		tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		for _, field := range form.Fields {
			label := field.Label
			if field.Required {
				label += " " + r.theme.RequiredMarker
			}
			fmt.Fprintf(tw, "%s\t%s\n", label, describeControl(field))
		}
		if err := tw.Flush(); err != nil {
			return nil, fmt.Errorf("tui: flush fields: %w", err)
		}
	}

	if form.ShowSubmit {
		buf.WriteString("\n[ Submit ]\n")
	}

	if fragment != render.FragmentPreview && form.Pending != nil {
		line := r.theme.PromptPrefix + form.Pending.Message
		if form.Pending.Default != "" {
			line += " (" + form.Pending.Default + ")"
		}
		buf.WriteString("\n" + line + "\n")
	}
	return buf.Bytes(), nil
}

func describeControl(field model.Field) string {
	switch field.Kind {
	case catalog.KindSelect:
		return "[select: " + strings.Join(field.Options, " | ") + "]"
	case catalog.KindTextarea:
		return "[textarea]"
	case catalog.KindText, catalog.KindEmail, catalog.KindDate:
		return "[" + field.InputType + "]"
	default:
		return "[" + string(field.Kind) + "]"
	}
}
