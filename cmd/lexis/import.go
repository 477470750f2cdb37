package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stemsi/lexis/internal/importer"
	"github.com/stemsi/lexis/internal/repository/csvstore"
)

func newImportCmd(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "import --from DIR",
		Short: "Copy records from a CSV data directory into the configured store",
		Long: `Copy every college, program and student found in the CSV files under DIR
into the configured store. Records whose key already exists are skipped.
References to parents that do not exist in the destination become N/A.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := csvstore.New(from, a.log)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer src.Close()

			report, err := importer.New(a.log).Import(cmd.Context(), src, a.store)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), report)
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "CSV data directory to read")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
