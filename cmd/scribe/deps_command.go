package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/deps"
	"scribe/internal/services"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Defaults(cfg.PythonBinary()))

			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if !status.Optional {
						missingRequired = true
					}
				}
				detail := status.Description
				if status.Detail != "" {
					detail = status.Detail
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					state,
					yesNo(!status.Optional),
					detail,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "Status", "Required", "Detail"},
				rows,
				nil,
			))

			if missingRequired {
				return services.Wrap(services.ErrPreflight, "deps", "check",
					"Required external tools are missing", nil)
			}
			return nil
		},
	}
}
