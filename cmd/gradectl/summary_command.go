package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	service "github.com/okian/gradeboard/internal/app"
	"github.com/okian/gradeboard/internal/domain/types"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "List subject-year groups with record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *service.Service) error {
				sum, err := svc.Summaries(cmd.Context())
				if err != nil {
					return err
				}
				groups := types.NewGroups(sum.Groups)

				out := cmd.OutOrStdout()
				if ctx.flags.json {
					return writeJSON(out, groups)
				}
				if len(groups) == 0 {
					fmt.Fprintln(out, "No records stored")
					return nil
				}
				rows := make([][]string, 0, len(groups))
				for _, g := range groups {
					rows = append(rows, []string{strconv.Itoa(g.Year), g.SubjectCode, g.SubjectName, strconv.Itoa(g.Count), g.Label})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Year", "Code", "Name", "Count", "Label"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}
