package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"tubeshelf/agents/tubeshelf"
	"tubeshelf/shared/scheduler"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Refresh channels on the configured schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if log.Writer() == io.Discard {
				log.SetOutput(os.Stderr)
			}

			agent := tubeshelf.NewAgent(cfg, ctx.options...)
			defer agent.Close()
			s := scheduler.New(cfg, agent)

			if once {
				fmt.Fprintln(cmd.OutOrStdout(), "Running once...")
				if err := agent.Initialize(cmd.Context()); err != nil {
					return err
				}
				if err := s.RunOnce(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.Monitor().GetStatusSummary())
				lib := agent.Manager().Library
				fmt.Fprintf(cmd.OutOrStdout(), "Library: %d channels, %d videos\n",
					len(lib.Channels()), len(lib.Videos()))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Starting scheduler...")
			return s.Start(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run a single refresh and exit")
	return cmd
}
