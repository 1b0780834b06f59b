// Command xmldoc is a small CLI front end over the xmldoc/xquery
// packages: format, query, and well-formedness-check an XML document
// from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// cliConfig holds the settings a user can pin in a YAML config file
// (--config) instead of repeating flags on every invocation.
type cliConfig struct {
	Indent         bool   `yaml:"indent"`
	IndentString   string `yaml:"indent_string"`
	AttrQuote      string `yaml:"attr_quote"`
	LegacyCharsets bool   `yaml:"legacy_charsets"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{Indent: true, IndentString: "  ", AttrQuote: `"`}
}

func loadCLIConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xmldoc",
		Short:         "Parse, query, format, and validate XML documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newFormatCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newCheckCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "xmldoc:", err)
		os.Exit(1)
	}
}
