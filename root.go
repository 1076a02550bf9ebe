package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "vidconv",
		Short: "Convert video files between containers with ffmpeg",
		Long: "vidconv converts a video file to another container by running ffmpeg.\n" +
			"Without a subcommand it opens an interactive picker.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractiveTerminal() {
				return errors.New("interactive mode needs a terminal; use `vidconv convert` instead")
			}
			sess, err := ctx.newSession(true)
			if err != nil {
				return err
			}
			if err := preflightEncoder(sess.cfg.Encoder.Binary); err != nil {
				return err
			}
			final, err := RunTUI(cmd.Context(), sess)
			if err != nil {
				return err
			}
			if final.canceled {
				cmd.Println("Canceled by user; exiting.")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newFormatsCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
