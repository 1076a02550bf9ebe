package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mk7214/vidconv/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that external dependencies are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := deps.CheckBinaries([]deps.Requirement{deps.EncoderRequirement(cfg.Encoder.Binary)})

			rows := make([][]string, 0, len(results))
			missing := 0
			for _, st := range results {
				state, detail := "ok", st.Path
				if !st.Available {
					state, detail = "missing", st.Detail
					if !st.Optional {
						missing++
					}
				}
				rows = append(rows, []string{st.Name, st.Command, state, detail, st.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Dependency", "Command", "Status", "Detail", "Purpose"}, rows))
			if missing > 0 {
				return fmt.Errorf("%d required dependency(ies) missing", missing)
			}
			return nil
		},
	}
}
