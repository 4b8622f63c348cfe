package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	tripfinder "github.com/kailas-cloud/tripfinder/pkg/sdk"
)

func newSearchCmd(root *rootOptions, extra ...tripfinder.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Find experiences matching a trip description",
		Example: `  tripctl search quiet beach under $100
  tripctl search --model gpt-4.1-mini "hiking with a view"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := root.client(cmd.Context(), extra...)
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := client.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				var ie *tripfinder.InputError
				if errors.As(err, &ie) {
					return errors.New(ie.Message)
				}
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			return nil
		},
	}
}
