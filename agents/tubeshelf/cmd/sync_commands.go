package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tubeshelf/agents/tubeshelf"
	"tubeshelf/internal/models"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [channel-id]",
		Short: "Fetch new uploads for one channel or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				added, err := m.RefreshChannel(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d new videos\n", added)
				return nil
			}

			report, err := m.RefreshAll(cmd.Context())
			if report != nil {
				printRefreshReport(cmd.OutOrStdout(), report)
			}
			return err
		},
	}
}

func printRefreshReport(w io.Writer, report *models.RefreshReport) {
	fmt.Fprintln(w, report.GetSummary())
	for _, res := range report.Failed() {
		fmt.Fprintf(w, "  %s (%s): %v\n", res.Name, res.ChannelID, res.Err)
	}
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Import your YouTube subscriptions as channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			report, err := m.SyncSubscriptions(cmd.Context())
			if errors.Is(err, tubeshelf.ErrUnauthenticated) {
				return fmt.Errorf("%w: run `tubeshelf login` first", err)
			}
			if errors.Is(err, tubeshelf.ErrAuth) {
				return fmt.Errorf("YouTube rejected the session, sign in again: %w", err)
			}
			if report != nil {
				fmt.Fprintln(cmd.OutOrStdout(), report.GetSummary())
				if report.Refresh != nil {
					printRefreshReport(cmd.OutOrStdout(), report.Refresh)
				}
			}
			return err
		},
	}
}
