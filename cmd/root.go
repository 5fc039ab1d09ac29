// =============================================================================
// Basket Enricher - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   rootCmd (enricher)
//   ├── processCmd (enricher process)
//   └── versionCmd (enricher version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose) and the
//   viper instance every subcommand binds its flags to.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the optional YAML configuration file.
var cfgFile string

// verbose forces debug logging when set.
var verbose bool

// v is the viper instance holding flag, environment and file settings.
var v = viper.New()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "enricher",
	Short: "Basket Enricher - Join transactions with loyalty, category and purchase history",
	Long: `Basket Enricher joins retail transaction baskets with customer loyalty
scores, product categories and per-customer purchase counts, and writes one
JSON record per basket line for downstream analytics and feature pipelines.

Example Usage:
  enricher process                                   # Use the starter data layout
  enricher process --output_location ./out           # Override one location
  enricher process --config ./enricher.yaml          # Use a config file`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
// Any error terminates the process with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"enricher.yaml",
		"Path to an optional YAML configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
