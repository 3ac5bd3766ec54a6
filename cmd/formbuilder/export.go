package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/draft"
	"github.com/goliatone/go-formbuilder/pkg/export"
)

func exportCmd(_ *app) *cobra.Command {
	var (
		input   string
		path    string
		version string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a draft JSON export into an OpenAPI document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("open draft: %w", err)
				}
				defer f.Close()
				r = f
			}

			doc, err := readDraft(r)
			if err != nil {
				return err
			}
			raw, err := export.OpenAPIJSON(cmd.Context(), doc.Fields,
				export.WithTitle(doc.Title),
				export.WithPath(path),
				export.WithVersion(version),
			)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "Draft JSON file (stdin when -)")
	cmd.Flags().StringVar(&path, "path", "", "Submission path")
	cmd.Flags().StringVar(&version, "api-version", "", "info.version of the document")
	return cmd
}

// readDraft decodes a draft export and replays it through a FormDraft so the
// same invariants apply as for interactively placed fields.
func readDraft(r io.Reader) (export.Document, error) {
	var doc export.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return export.Document{}, fmt.Errorf("decode draft: %w", err)
	}
	d := draft.New()
	for _, field := range doc.Fields {
		if err := d.Append(field); err != nil {
			return export.Document{}, err
		}
	}
	doc.Fields = d.Fields()
	return doc, nil
}
