// Package cli wires the catagen commands.
package cli

import (
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/foodworks-dev/catagen/internal/config"
)

var (
	cfgPath string
	verbose bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "catagen",
	Short: "Generate supplier catalog presentations from a template slide",
	Long: `catagen renders multi-page product catalogs (.pptx) from a single
designed template slide. Product records come from an Excel workbook,
pictures from a per-supplier image directory; placeholder tokens in the
template are substituted page by page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "catagen.toml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setupLogging() {
	level := log.ParseLevel(cfg.Logging.Level)
	if verbose {
		level = log.DebugLevel
	}
	log.DefaultLogger = log.Logger{
		Level:      level,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput:    true,
			EndWithMessage: true,
		},
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
