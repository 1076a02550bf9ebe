package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mk7214/vidconv/internal/convert"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var format, outDir, name string

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a single file without the interactive picker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.newSession(false)
			if err != nil {
				return err
			}
			if format == "" {
				format = sess.cfg.Formats.Default
			}

			req := convert.NewRequest(args[0], format, outDir, name)
			if err := convert.Validate(req, sess.policy()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			unsubscribe := sess.converter.Notifier().Subscribe(func(outputPath string) {
				fmt.Fprintln(out, successMessage(outputPath))
			})
			defer unsubscribe()

			fmt.Fprintf(out, "Converting %s to %s...\n", req.InputPath, req.Format)
			outcome := sess.run(cmd.Context(), req)
			if !outcome.Succeeded() {
				return fmt.Errorf("conversion failed: %w", outcome.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Target container format (defaults to formats.default)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output folder (defaults to the input's folder)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Output file name (defaults to the input's name)")
	return cmd
}
