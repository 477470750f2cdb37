package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stemsi/lexis/internal/model"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "get {colleges|programs|students} KEY",
		Short:     "Show one record as JSON",
		Args:      cobra.ExactArgs(2),
		ValidArgs: entities,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				record any
				err    error
			)
			switch args[0] {
			case "colleges":
				record, err = a.colleges.Get(ctx, args[1])
			case "programs":
				record, err = a.programs.Get(ctx, args[1])
			case "students":
				record, err = a.students.Get(ctx, args[1])
			default:
				return fmt.Errorf("unknown record type %q", args[0])
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(record)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete {colleges|programs|students} KEY...",
		Short: "Delete records; children are detached, not deleted",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				m   model.Mutation
				err error
			)
			switch args[0] {
			case "colleges":
				m, err = a.colleges.BatchDelete(ctx, args[1:])
			case "programs":
				m, err = a.programs.BatchDelete(ctx, args[1:])
			case "students":
				m, err = a.students.BatchDelete(ctx, args[1:])
			default:
				return fmt.Errorf("unknown record type %q", args[0])
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), m.Message)
			return err
		},
	}
}
