package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/freight-audit/internal/config"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	configPath   string
)

var rootCmd = &cobra.Command{
	Use:   "freight-audit",
	Short: "Reconcile CT-e freight invoices against tariff tables",
	Long: `Freight Audit checks the freight amount billed on Brazilian CT-e
documents against the charge a client's negotiated tariff tables predict.

Each invoice is classified OK, OVERBILLED or UNDERBILLED; invoices whose
destination has no tariff row come back UNRESOLVED.

Examples:
  # Audit a batch of CT-e files for a client
  freight-audit audit --client acme invoices/*.xml

  # Export the results as a spreadsheet
  freight-audit audit --client acme invoices/ -f csv -o conferencia.csv

  # List configured clients
  freight-audit clients

  # Start the HTTP API
  freight-audit serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, table)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (env: FREIGHT_AUDIT_CONFIG, default: config.yaml)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if configPath == "" {
		configPath = os.Getenv("FREIGHT_AUDIT_CONFIG")
	}
	if configPath == "" {
		configPath = "config.yaml"
	}
}

func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	printVerbose("Loaded config from %s (%d clients)\n", configPath, len(cfg.Clients))
	return cfg, nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
