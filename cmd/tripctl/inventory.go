package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	tripfinder "github.com/kailas-cloud/tripfinder/pkg/sdk"
)

func newInventoryCmd(root *rootOptions, extra ...tripfinder.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := root.client(cmd.Context(), extra...)
			if err != nil {
				return err
			}
			defer client.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tPRICE\tTAGS")
			for _, it := range client.Inventory() {
				fmt.Fprintf(w, "%d\t%s\t%s\t$%d\t%s\n", it.ID, it.Title, it.Location, it.Price, strings.Join(it.Tags, ","))
			}
			return w.Flush()
		},
	}
}
