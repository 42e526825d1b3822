// luckybolt shows a lightning shader until you touch it, then draws lottery
// numbers.
//
// Usage:
//
//	luckybolt [play]          - Open the interactive window (default)
//	luckybolt draw            - Print draws without a window
//	luckybolt record          - Render the lightning loop to a video file
//
// Global flags:
//
//	--config <path> - Config file (default search: ~/.luckybolt/config.yaml, ./configs/luckybolt.yaml)
//	--seed <value>  - RNG seed for reproducible draws (0 = random)
//	--verbose       - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/richinsley/luckybolt/config"
	"github.com/richinsley/luckybolt/options"
)

var (
	opts   = options.FromConfig(config.Default())
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "luckybolt",
	Short: "Lightning-themed lottery number picker",
	Long: `luckybolt opens a window full of lightning. Wait for the touch guide,
touch the lightning, and six numbers plus a bonus are drawn for you.

Available commands:
  play     - Interactive window (default)
  draw     - Print draws to the terminal
  record   - Render the lightning loop to a video file`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Uint64Var(&opts.Seed, "seed", 0, "RNG seed (0 = random)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging")

	addWindowFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(drawCmd)
	rootCmd.AddCommand(recordCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "luckybolt",
	})
	log.SetDefault(logger)
	return nil
}

// loadConfig loads the config file and layers the flags set on cmd over it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}
	opts.Apply(&cfg, func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	logger.Debug("config loaded", "window", fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height), "audio", cfg.Audio.Enabled)
	return cfg, nil
}
