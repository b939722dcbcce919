package main

import (
	"github.com/spf13/cobra"

	"rspo-readiness/internal/catalog"
)

var rootCmd = &cobra.Command{
	Use:           "rspoctl",
	Short:         "RSPO readiness assessment tooling",
	Long:          "rspoctl validates and inspects the question catalog, scores answer files offline and seeds demo accounts.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("file", "", "Catalog YAML file (defaults to the embedded catalog)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(seedCmd)
}

// loadCatalog uses --file when given, the embedded catalog otherwise
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	if p, _ := cmd.Flags().GetString("file"); p != "" {
		return catalog.LoadFile(p)
	}
	return catalog.Default()
}
