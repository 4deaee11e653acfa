package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	service "github.com/okian/gradeboard/internal/app"
	"github.com/okian/gradeboard/internal/domain/types"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "records <label>",
		Short: "Show the records and score distribution behind a summary label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *service.Service) error {
				detail, err := svc.GroupDetail(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				view := types.GroupDetail{
					Label:        detail.Label,
					Records:      types.NewRecords(detail.Records),
					Distribution: detail.Distribution,
				}

				out := cmd.OutOrStdout()
				if ctx.flags.json {
					return writeJSON(out, view)
				}

				rows := make([][]string, 0, len(view.Records))
				for _, r := range view.Records {
					rows = append(rows, []string{strconv.Itoa(r.Year), r.SubjectCode, r.SubjectName, strconv.Itoa(r.Score)})
				}
				fmt.Fprintln(out, view.Label)
				fmt.Fprintln(out, renderTable(
					[]string{"Year", "Code", "Name", "Score"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
				))

				d := view.Distribution
				fmt.Fprintf(out, "min %d  max %d  mean %.2f  median %.2f  stddev %.2f\n", d.Min, d.Max, d.Mean, d.Median, d.StdDev)
				bins := make([][]string, 0, len(d.Buckets))
				for _, b := range d.Buckets {
					bins = append(bins, []string{fmt.Sprintf("%d-%d", b.Lower, b.Upper), strconv.Itoa(b.Count)})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Range", "Count"},
					bins,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
