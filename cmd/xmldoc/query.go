package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/xmltree/xmldoc"
	"github.com/arturoeanton/xmltree/xquery"
)

func newQueryCmd() *cobra.Command {
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "query <file> <path>",
		Short: "Evaluate an xquery path against an XML document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig(configPath)
			if err != nil {
				return err
			}
			var opts []xmldoc.Option
			if cfg.LegacyCharsets {
				opts = append(opts, xmldoc.EnableLegacyCharsets())
			}
			doc, err := xmldoc.ParseFile(args[0], opts...)
			if err != nil {
				return err
			}
			root, ok := doc.RootElement()
			if !ok {
				return fmt.Errorf("document has no root element")
			}

			if countOnly {
				fmt.Fprintln(cmd.OutOrStdout(), xquery.Count(root, args[1]))
				return nil
			}

			matches := xquery.FindAll(root, args[1])
			if len(matches) == 0 {
				if v, ok := xquery.Text(root, args[1]); ok {
					fmt.Fprintln(cmd.OutOrStdout(), v)
					return nil
				}
				return fmt.Errorf("path matched nothing")
			}
			for _, m := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), m.Text())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&countOnly, "count", false, "print the number of matches instead of their text")
	return cmd
}
