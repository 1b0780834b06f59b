package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/xmltree/xmldoc"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report whether an XML document is well-formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig(configPath)
			if err != nil {
				return err
			}
			var opts []xmldoc.Option
			if cfg.LegacyCharsets {
				opts = append(opts, xmldoc.EnableLegacyCharsets())
			}
			_, err = xmldoc.ParseFile(args[0], opts...)
			if err != nil {
				if xerr, ok := err.(*xmldoc.Error); ok {
					return fmt.Errorf("%s: %s (offset %d)", xerr.Kind, xerr.Detail, xerr.Offset)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "well-formed")
			return nil
		},
	}
	return cmd
}
