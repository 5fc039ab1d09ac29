// =============================================================================
// Basket Enricher - Configuration Module
// =============================================================================
//
// This module resolves the run configuration. Values are layered, lowest
// precedence first:
//
//   1. Built-in defaults (the starter data layout)
//   2. Optional YAML config file (--config, default enricher.yaml)
//   3. Environment variables prefixed with ENRICHER_ (ENRICHER_OUTPUT_LOCATION)
//   4. Command-line flags bound by the cmd package
//
// Every option is optional; an absent value uses its default.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// =============================================================================
// CONFIGURATION KEYS
// =============================================================================

// Keys recognized in config files, environment variables and flags.
const (
	KeyCustomersLocation    = "customers_location"
	KeyProductsLocation     = "products_location"
	KeyTransactionsLocation = "transactions_location"
	KeyOutputLocation       = "output_location"
	KeyOutputFileName       = "output_file_name"
	KeyTransactionsFileName = "transactions_file_name"
	KeyCustomersSheet       = "customers_sheet"
	KeyProductsSheet        = "products_sheet"
	KeyCSVDelimiter         = "csv_delimiter"
	KeyMaxConcurrency       = "max_concurrency"
	KeyLogLevel             = "log_level"
	KeyReportLocation       = "report_location"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "ENRICHER"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the resolved run configuration.
type Config struct {
	// =========================================================================
	// INPUT LOCATIONS
	// =========================================================================

	// CustomersLocation is the customer reference source (.csv or .xlsx).
	// Default: "./input_data/starter/customers.csv"
	CustomersLocation string `mapstructure:"customers_location"`

	// ProductsLocation is the product reference source (.csv or .xlsx).
	// Default: "./input_data/starter/products.csv"
	ProductsLocation string `mapstructure:"products_location"`

	// TransactionsLocation is the root directory of the transaction tree.
	// Each immediate subdirectory may hold one transactions file.
	// Default: "./input_data/starter/transactions/"
	TransactionsLocation string `mapstructure:"transactions_location"`

	// TransactionsFileName is the file looked for in each subdirectory.
	// Default: "transactions.json"
	TransactionsFileName string `mapstructure:"transactions_file_name"`

	// CustomersSheet and ProductsSheet select worksheets for .xlsx sources.
	// Default: "" (first sheet)
	CustomersSheet string `mapstructure:"customers_sheet"`
	ProductsSheet  string `mapstructure:"products_sheet"`

	// CSVDelimiter is the field delimiter for CSV reference sources.
	// Default: ","
	CSVDelimiter string `mapstructure:"csv_delimiter"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputLocation is the output directory, created if absent.
	// Default: "./output_data/outputs/"
	OutputLocation string `mapstructure:"output_location"`

	// OutputFileName is the JSON Lines file written inside OutputLocation.
	// Default: "output.json"
	OutputFileName string `mapstructure:"output_file_name"`

	// ReportLocation is where the run summary and skipped-line log go.
	// Default: "" (no report)
	ReportLocation string `mapstructure:"report_location"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the number of goroutines used to build the
	// purchase-frequency index. Set to 1 for sequential processing.
	// Default: 1
	MaxConcurrency int `mapstructure:"max_concurrency"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `mapstructure:"log_level"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyCustomersLocation, "./input_data/starter/customers.csv")
	v.SetDefault(KeyProductsLocation, "./input_data/starter/products.csv")
	v.SetDefault(KeyTransactionsLocation, "./input_data/starter/transactions/")
	v.SetDefault(KeyOutputLocation, "./output_data/outputs/")
	v.SetDefault(KeyOutputFileName, "output.json")
	v.SetDefault(KeyTransactionsFileName, "transactions.json")
	v.SetDefault(KeyCustomersSheet, "")
	v.SetDefault(KeyProductsSheet, "")
	v.SetDefault(KeyCSVDelimiter, ",")
	v.SetDefault(KeyMaxConcurrency, 1)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyReportLocation, "")
}

// Load resolves the configuration from v.
//
// PARAMETERS:
//   - v: The viper instance. Flags should already be bound to it.
//   - configPath: The YAML config file. Empty skips the file.
//   - required: When false, a missing config file is ignored.
//
// RETURNS:
//   - The resolved and validated configuration.
//   - An error if the file cannot be parsed or a value is invalid.
func Load(v *viper.Viper, configPath string, required bool) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		_, statErr := os.Stat(configPath)
		switch {
		case statErr == nil:
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		case required || !os.IsNotExist(statErr):
			return nil, fmt.Errorf("failed to read config file: %w", statErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every required value is usable.
func (c *Config) Validate() error {
	required := []struct{ key, value string }{
		{KeyCustomersLocation, c.CustomersLocation},
		{KeyProductsLocation, c.ProductsLocation},
		{KeyTransactionsLocation, c.TransactionsLocation},
		{KeyOutputLocation, c.OutputLocation},
		{KeyOutputFileName, c.OutputFileName},
		{KeyTransactionsFileName, c.TransactionsFileName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s must not be empty", r.key)
		}
	}

	if c.MaxConcurrency < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyMaxConcurrency, c.MaxConcurrency)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s must be one of debug, info, warn, error, got %q", KeyLogLevel, c.LogLevel)
	}

	return nil
}
