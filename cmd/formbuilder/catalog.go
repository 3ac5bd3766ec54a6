package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func catalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the palette entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, watcher, err := openCatalog(a.cfg, a.logger)
			if err != nil {
				return err
			}
			if watcher != nil {
				defer watcher.Close()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tLABEL\tOPTIONS")
			for _, tpl := range source.Current().Templates() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", tpl.Kind(), tpl.DefaultLabel(), strings.Join(tpl.DefaultOptions(), ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("catalog", "", "Catalog YAML file (built-in palette when empty)")
	return cmd
}
