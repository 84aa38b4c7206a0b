package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavesink/internal/catalog"
	"github.com/llehouerou/wavesink/internal/config"
	"github.com/llehouerou/wavesink/internal/errmsg"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tracks in the music folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := scanCatalog(cfg, zerolog.Nop())
		if err != nil {
			return err
		}
		return cat.Print(cmd.OutOrStdout(), -1)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the music folder and print a summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := scanCatalog(cfg, zerolog.Nop())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cfg.MusicRoot, cat.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scanCmd)
}

func newCatalog(c *config.Config, log zerolog.Logger) *catalog.Catalog {
	return catalog.New(os.DirFS(c.MusicRoot), catalog.Options{
		Root:       c.MusicRoot,
		Extensions: c.Catalog.Extensions,
		TagNames:   c.Catalog.TagNames,
		Logger:     log,
	})
}

func scanCatalog(c *config.Config, log zerolog.Logger) (*catalog.Catalog, error) {
	cat := newCatalog(c, log)
	if err := cat.Scan(); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", errmsg.OpCatalogScan, err)
	}
	return cat, nil
}
