package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	service "github.com/okian/gradeboard/internal/app"
	"github.com/okian/gradeboard/internal/domain/types"
)

type submitOutcome struct {
	File string `json:"file"`
	types.Submission
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <file>...",
		Short: "Submit transcript text files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *service.Service) error {
				outcomes := make([]submitOutcome, 0, len(args))
				rejected := 0
				for _, path := range args {
					raw, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read %s: %w", path, err)
					}
					res := svc.Submit(cmd.Context(), raw, "")
					if !res.Accepted {
						rejected++
					}
					outcomes = append(outcomes, submitOutcome{File: filepath.Base(path), Submission: types.NewSubmission(res)})
				}

				if err := printOutcomes(cmd, ctx.flags.json, outcomes); err != nil {
					return err
				}
				if rejected > 0 {
					return fmt.Errorf("%d of %d submissions rejected", rejected, len(args))
				}
				return nil
			})
		},
	}
}

func printOutcomes(cmd *cobra.Command, asJSON bool, outcomes []submitOutcome) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, outcomes)
	}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		status := "accepted"
		if !o.Accepted {
			status = o.Reason
		}
		rows = append(rows, []string{o.File, status, o.Layout, strconv.Itoa(o.RecordCount), o.ID})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Status", "Layout", "Records", "ID"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}
