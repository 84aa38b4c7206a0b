// Package cli implements the wavesink command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/wavesink/internal/config"
	"github.com/llehouerou/wavesink/internal/errmsg"
)

var (
	cfgFile  string
	rootDir  string
	device   string
	sinkName string
	logLevel string
	connect  bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wavesink",
	Short: "Play a music folder through an audio sink",
	Long: `wavesink scans a music folder and streams it to an audio sink,
controlled from a single-key console and desktop media keys.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE:         runPlayer,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/wavesink/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "music folder")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error")
	rootCmd.Flags().StringVarP(&device, "device", "d", "", "sink device to connect to")
	rootCmd.Flags().StringVarP(&sinkName, "sink", "s", "", "sink backend: oto, speaker or null")
	rootCmd.Flags().BoolVar(&connect, "connect", false, "connect to the sink on startup")
}

// initConfig loads the configuration and applies the flags that were set.
func initConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", errmsg.OpConfigLoad, err)
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		loaded.MusicRoot = rootDir
	}
	if flags.Changed("device") {
		loaded.TargetDevice = device
	}
	if flags.Changed("sink") {
		loaded.Sink.Backend = sinkName
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
