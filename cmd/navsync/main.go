// Command navsync encodes and decodes navigation fragments and runs the
// hash router against the in-memory console or a real browser page.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"navsync/internal/config"
	"navsync/internal/logging"
	"navsync/internal/narrow"
	"navsync/internal/router"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Set up by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
	logs   *logging.Set
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "navsync",
	Short: "navsync - keep a page's URL fragment and its visible view in sync",
	Long: `navsync implements a hash router: it encodes message filters into URL
fragments, decodes them back, and dispatches fragment changes to views and
overlays.

Use 'encode', 'decode' and 'classify' to inspect fragments, 'console' to
explore the router interactively, and 'watch' to route a real browser page.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		var level zap.AtomicLevel
		logger, level, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		var opts []logging.SetOption
		if !verbose {
			// --verbose pins debug level across reloads.
			opts = append(opts, logging.WithLevel(level))
		}
		logs = logging.NewSet(logger, cfg.Logging, opts...)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "navsync.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(encodeCmd, decodeCmd, classifyCmd, consoleCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// codec returns the fragment codec backed by the configured people.
func codec() narrow.Codec {
	return narrow.NewCodec(cfg.Directory())
}

// routerOptions maps configuration onto router options.
func routerOptions() (router.Options, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return router.Options{}, err
	}
	return router.Options{
		Registry:       reg,
		Codec:          codec(),
		HomeTab:        cfg.Router.HomeTab,
		InitialPointer: cfg.Router.InitialPointer,
		Logger:         logs.Get(logging.CategoryRouter),
	}, nil
}
