package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mk7214/vidconv/internal/convert"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the target formats vidconv accepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(cfg.Formats.Allowed))
			for _, f := range cfg.Formats.Allowed {
				def := ""
				if f == cfg.Formats.Default {
					def = "yes"
				}
				rows = append(rows, []string{f, convert.FormatLabel(f), convert.FormatDescription(f), def})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Format", "Label", "Description", "Default"}, rows))
			if cfg.Formats.AllowAny {
				fmt.Fprintln(out, "formats.allow_any is set: any other format token is accepted as well.")
			}
			return nil
		},
	}
}
