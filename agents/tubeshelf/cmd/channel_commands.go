package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tubeshelf/agents/tubeshelf"
)

func newChannelCommand(ctx *commandContext) *cobra.Command {
	channelCmd := &cobra.Command{
		Use:   "channel",
		Short: "Manage tracked channels",
	}
	channelCmd.AddCommand(newChannelAddCommand(ctx))
	channelCmd.AddCommand(newChannelListCommand(ctx))
	channelCmd.AddCommand(newChannelMoveCommand(ctx))
	channelCmd.AddCommand(newChannelRemoveCommand(ctx))
	return channelCmd
}

func newChannelAddCommand(ctx *commandContext) *cobra.Command {
	var folderID string
	cmd := &cobra.Command{
		Use:   "add <channel-url|channel-id|@handle>",
		Short: "Track a channel and fetch its recent uploads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			ch, added, err := m.AddChannel(cmd.Context(), args[0], folderID)
			if err != nil {
				if ch.ID != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Added channel %s (%s); videos will be fetched on the next refresh\n", ch.Name, ch.ID)
				}
				if errors.Is(err, tubeshelf.ErrDuplicateChannel) {
					return fmt.Errorf("channel is already tracked")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added channel %s (%s) with %d videos\n", ch.Name, ch.ID, added)
			return nil
		},
	}
	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "Folder to place the channel in")
	return cmd
}

func newChannelListCommand(ctx *commandContext) *cobra.Command {
	var folderID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			names := folderNames(m.Library.Folders())

			var rows [][]string
			for _, ch := range m.Library.Channels() {
				if folderID != "" && ch.FolderID != folderID {
					continue
				}
				folder := names[ch.FolderID]
				if ch.FolderID == "" {
					folder = "-"
				}
				rows = append(rows, []string{ch.ID, ch.Name, folder, strconv.Itoa(m.Library.ChannelVideoCount(ch.ID))})
			}
			writeRows(cmd.OutOrStdout(), []string{"ID", "Name", "Folder", "Videos"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
			return nil
		},
	}
	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "Only show channels in this folder")
	return cmd
}

func newChannelMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <channel-id> [folder-id]",
		Short: "Move a channel to a folder, or out of any folder when none is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			folderID := ""
			if len(args) == 2 {
				folderID = args[1]
			}
			if err := m.Library.AssignChannel(cmd.Context(), args[0], folderID); err != nil {
				return err
			}
			if folderID == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Unassigned channel %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Moved channel %s to %s\n", args[0], folderID)
			}
			return nil
		},
	}
}

func newChannelRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <channel-id>",
		Aliases: []string{"remove"},
		Short:   "Stop tracking a channel and delete its videos",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := m.Library.DeleteChannel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed channel %s and %d videos\n", args[0], removed)
			return nil
		},
	}
}
