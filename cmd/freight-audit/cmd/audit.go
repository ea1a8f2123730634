package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rezonia/freight-audit/internal/export"
	"github.com/rezonia/freight-audit/internal/model"
	"github.com/rezonia/freight-audit/internal/reconcile"
)

var (
	auditClient string
	outputFile  string
	timeout     time.Duration
)

var auditCmd = &cobra.Command{
	Use:   "audit [files...]",
	Short: "Audit CT-e files against a client's tariff tables",
	Long: `Audit one or more CT-e XML files for a configured client.

Every file becomes one result row. Files that fail to parse and
destinations without a tariff row never abort the batch; they come
back as ERROR and UNRESOLVED rows.

Examples:
  freight-audit audit --client acme invoice.xml
  freight-audit audit --client acme invoices/*.xml -f table
  freight-audit audit --client acme invoices/ -f csv -o conferencia.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditClient, "client", "", "Client profile to audit against (required)")
	auditCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	auditCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Batch processing timeout")
	auditCmd.MarkFlagRequired("client")
}

func runAudit(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no CT-e files found to audit")
	}
	printVerbose("Found %d files to audit\n", len(files))

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	clientCfg, err := cfg.Client(auditClient)
	if err != nil {
		return err
	}
	profile, err := reconcile.LoadProfile(auditClient, clientCfg)
	if err != nil {
		return err
	}

	var opts []reconcile.Option
	if cfg.Tolerance != "" {
		tolerance, err := decimal.NewFromString(cfg.Tolerance)
		if err != nil {
			return fmt.Errorf("invalid tolerance %q: %w", cfg.Tolerance, err)
		}
		opts = append(opts, reconcile.WithTolerance(tolerance))
	}
	pipeline := reconcile.NewPipeline(opts...)

	docs := make([]reconcile.Document, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		docs = append(docs, reconcile.Document{Name: filepath.Base(file), Content: content})
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	batch := pipeline.Run(ctx, profile, docs)

	reconciled, unresolved, errored := batch.Counts()
	printVerbose("Batch %s: %d reconciled, %d unresolved, %d errored\n",
		batch.ID, reconciled, unresolved, errored)

	return outputBatch(batch)
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}

			if info.IsDir() {
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && isXMLFile(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
		} else {
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					continue
				}
				if !info.IsDir() && isXMLFile(match) {
					files = append(files, match)
				}
			}
		}
	}

	return files, nil
}

func isXMLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

func outputBatch(batch *model.BatchResult) error {
	var writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(batch)
	case "csv":
		return export.WriteCSV(writer, batch)
	case "table":
		return outputTable(writer, batch)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputTable(w *os.File, batch *model.BatchResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CTE\tDESTINATION\tEXPECTED\tBILLED\tDIFFERENCE\tSTATUS")
	fmt.Fprintln(tw, "---\t-----------\t--------\t------\t----------\t------")

	for _, r := range batch.Results {
		if r.Status == model.StatusError {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\n", r.InvoiceNumber, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.InvoiceNumber,
			r.Destination,
			r.Expected.StringFixed(2),
			r.Billed.StringFixed(2),
			r.Difference.StringFixed(2),
			r.Status,
		)
	}

	totals := batch.Totals.Rounded()
	fmt.Fprintf(tw, "TOTAL\t\t%s\t%s\t%s\t\n",
		totals.Expected.StringFixed(2),
		totals.Billed.StringFixed(2),
		totals.Difference.StringFixed(2),
	)

	return tw.Flush()
}
