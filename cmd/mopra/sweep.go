package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newSweepCmd(opts *options) *cobra.Command {
	var except string
	cmd := &cobra.Command{
		Use:     "sweep",
		Short:   "Terminate stray runtime processes and print how many were stopped",
		Example: "  mopra sweep\n  mopra sweep --except phi3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			n := newManager(cfg, log).TerminateAll(cmd.Context(), except)
			return printCount(cmd.OutOrStdout(), n)
		},
	}
	cmd.Flags().StringVar(&except, "except", "", "Keep processes serving this model")
	return cmd
}

func printCount(w io.Writer, n int) error {
	_, err := fmt.Fprintf(w, "terminated %d\n", n)
	return err
}
