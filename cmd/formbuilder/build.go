package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/export"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

const doneChoice = "Done"

// Output formats accepted by build --format.
const (
	formatText    = "text"
	formatHTML    = "html"
	formatJSON    = "json"
	formatOpenAPI = "openapi"
)

func buildCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a form interactively in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, watcher, err := openCatalog(a.cfg, a.logger)
			if err != nil {
				return err
			}
			if watcher != nil {
				defer watcher.Close()
			}

			b := builder.New(
				builder.WithCatalog(source),
				builder.WithTitle(a.cfg.Title),
				builder.WithLogger(a.logger),
			)
			defer b.Close()

			driver := prompt.NewSurvey()
			if err := runSession(cmd.Context(), b, driver, cmd.ErrOrStderr()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			return writeResult(cmd.Context(), b, format, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Result format (text, html, json, openapi)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().String("title", "", "Heading rendered above the drop zone")
	cmd.Flags().String("catalog", "", "Catalog YAML file (built-in palette when empty)")
	return cmd
}

// runSession repeatedly offers the palette, places the chosen entry and
// prints the preview until the user picks Done or dismisses the menu.
func runSession(ctx context.Context, b *builder.Builder, driver prompt.Driver, preview io.Writer) error {
	text := tui.New()
	for {
		templates := b.Catalog().Templates()
		choices := make([]string, 0, len(templates)+1)
		for _, tpl := range templates {
			choices = append(choices, tpl.DefaultLabel())
		}
		choices = append(choices, doneChoice)

		idx, err := driver.Select(ctx, prompt.SelectConfig{
			Message: "Drag an element onto the form:",
			Options: choices,
		})
		if errors.Is(err, prompt.ErrCancelled) || (err == nil && idx == len(templates)) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx > len(templates) {
			return fmt.Errorf("build: selection %d out of range", idx)
		}

		result, err := b.Place(ctx, driver, templates[idx].Kind())
		if err != nil {
			return err
		}
		if !result.Committed() {
			_ = driver.Info(ctx, "Placement cancelled.")
			continue
		}

		out, err := text.Render(ctx, b.Model(), render.RenderOptions{Fragment: render.FragmentPreview})
		if err != nil {
			return err
		}
		if _, err := preview.Write(out); err != nil {
			return err
		}
	}
}

func writeResult(ctx context.Context, b *builder.Builder, format string, out io.Writer) error {
	var (
		payload []byte
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatText:
		payload, _, err = formbuilder.Render(ctx, b, "tui", render.RenderOptions{Fragment: render.FragmentPreview})
	case formatHTML:
		payload, _, err = formbuilder.Render(ctx, b, "vanilla", render.RenderOptions{Fragment: render.FragmentPage})
	case formatJSON:
		payload, err = export.JSON(b.Model().Title, b.Draft().Fields())
	case formatOpenAPI:
		payload, err = export.OpenAPIJSON(ctx, b.Draft().Fields(), export.WithTitle(b.Model().Title))
	default:
		return fmt.Errorf("build: unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = out.Write(payload)
	return err
}
