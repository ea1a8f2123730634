package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List configured client profiles",
	Long: `List the client profiles from the configuration file, with the
reference tables each one audits against.`,
	RunE: runClients,
}

func init() {
	rootCmd.AddCommand(clientsCmd)
}

func runClients(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tORIGIN\tUF\tRATE TABLE\tTAX TABLE\tREGION TABLE")
	fmt.Fprintln(tw, "------\t------\t--\t----------\t---------\t------------")

	for _, id := range cfg.ClientIDs() {
		client := cfg.Clients[id]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			id, client.Origin, client.OriginUF,
			client.RateTable, client.TaxTable, client.RegionTable)
	}

	return tw.Flush()
}
