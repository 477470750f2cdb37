package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stemsi/lexis/internal/model"
)

var entities = []string{"colleges", "programs", "students"}

func newListCmd(a *app) *cobra.Command {
	var (
		q      model.ListQuery
		desc   bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:       "list {colleges|programs|students}",
		Short:     "List one page of records",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: entities,
		RunE: func(cmd *cobra.Command, args []string) error {
			if desc {
				q.Order = model.SortDesc
			}
			ctx := cmd.Context()
			var (
				header []string
				rows   [][]string
				page   model.Page[any]
			)
			switch args[0] {
			case "colleges":
				p, err := a.colleges.List(ctx, q)
				if err != nil {
					return err
				}
				header = []string{"CODE", "NAME"}
				for _, c := range p.Items {
					rows = append(rows, []string{c.Code, c.Name})
				}
				page = erase(p)
			case "programs":
				p, err := a.programs.List(ctx, q)
				if err != nil {
					return err
				}
				header = []string{"CODE", "NAME", "COLLEGE"}
				for _, pr := range p.Items {
					rows = append(rows, []string{pr.Code, pr.Name, pr.CollegeCode})
				}
				page = erase(p)
			default:
				p, err := a.students.List(ctx, q)
				if err != nil {
					return err
				}
				header = []string{"ID", "FIRST", "LAST", "YEAR", "GENDER", "PROGRAM", "COLLEGE"}
				for _, s := range p.Items {
					rows = append(rows, []string{s.IDNumber, s.FirstName, s.LastName,
						strconv.Itoa(s.YearLevel), string(s.Gender), s.ProgramCode, s.CollegeCode})
				}
				page = erase(p)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}
			return printTable(cmd, header, rows, page)
		},
	}
	f := cmd.Flags()
	f.IntVar(&q.Page, "page", 1, "page number, starting at 1")
	f.StringVar(&q.SortBy, "sort", "", "primary sort field, e.g. last_name")
	f.StringVar(&q.ThenBy, "then", "", "secondary sort field")
	f.BoolVar(&desc, "desc", false, "sort descending")
	f.StringVar(&q.Field, "field", "", "search only this field")
	f.StringVarP(&q.Term, "query", "q", "", "search term")
	f.BoolVar(&asJSON, "json", false, "print the page as JSON")
	return cmd
}

// erase drops the item type so the three listings can share one printer.
func erase[T any](p model.Page[T]) model.Page[any] {
	items := make([]any, len(p.Items))
	for i, it := range p.Items {
		items[i] = it
	}
	return model.Page[any]{Items: items, Page: p.Page, PerPage: p.PerPage, TotalItems: p.TotalItems, TotalPages: p.TotalPages}
}

func printTable(cmd *cobra.Command, header []string, rows [][]string, page model.Page[any]) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	writeRow(w, header)
	for _, r := range rows {
		writeRow(w, r)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d records)\n",
		page.Page, page.LastPage(), page.TotalItems)
	return err
}

func writeRow(w *tabwriter.Writer, cols []string) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}
