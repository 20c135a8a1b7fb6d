// Package cmd contains all CLI commands for smartcart
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Juan-JM/SmartCart-Frotend/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  *slog.Logger
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smartcart",
	Short: "SmartCart storefront CLI",
	Long: `smartcart drives the SmartCart storefront from the terminal: browse
the catalog, manage the cart, sign in and check out.

Example usage:
  smartcart login --username ana       # Sign in
  smartcart products                   # Browse the catalog
  smartcart cart add 3 --qty 2         # Put two units of product 3 in the cart
  smartcart recommend                  # Suggestions for the cart contents
  smartcart checkout --method pm_xxx   # Pay for the cart
  smartcart orders                     # Order history`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .smartcart.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig sets up the logger and loads configuration from the config
// file and the environment. Verbosity can come from the flag or
// SMARTCART_VERBOSE.
func initConfig() error {
	viper.SetEnvPrefix("SMARTCART")
	viper.AutomaticEnv()

	logLevel := slog.LevelWarn
	if viper.GetBool("verbose") {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Debug("configuration loaded",
		"api_url", cfg.APIBaseURL,
		"cart_backend", cfg.CartBackend,
	)
	return nil
}
