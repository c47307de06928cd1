package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tubeshelf/internal/models"
)

func newFolderCommand(ctx *commandContext) *cobra.Command {
	folderCmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage channel folders",
	}
	folderCmd.AddCommand(newFolderAddCommand(ctx))
	folderCmd.AddCommand(newFolderListCommand(ctx))
	folderCmd.AddCommand(newFolderRenameCommand(ctx))
	folderCmd.AddCommand(newFolderRemoveCommand(ctx))
	return folderCmd
}

func newFolderAddCommand(ctx *commandContext) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			folder, err := m.Library.CreateFolder(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created folder %s (%s)\n", folder.Name, folder.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Folder color, e.g. #6366f1")
	return cmd
}

func newFolderListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}

			members := make(map[string]int)
			for _, ch := range m.Library.Channels() {
				members[ch.FolderID]++
			}

			var rows [][]string
			for _, f := range m.Library.Folders() {
				channels := "-"
				if !f.IsDefault {
					channels = strconv.Itoa(members[f.ID])
				}
				rows = append(rows, []string{f.ID, f.Name, f.Color, channels})
			}
			if n := members[""]; n > 0 {
				rows = append(rows, []string{"", "(unassigned)", "", strconv.Itoa(n)})
			}
			writeRows(cmd.OutOrStdout(), []string{"ID", "Name", "Color", "Channels"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
			return nil
		},
	}
}

func newFolderRenameCommand(ctx *commandContext) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "rename <folder-id> <name>",
		Short: "Rename or recolor a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := m.Library.UpdateFolder(cmd.Context(), args[0], args[1], color); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated folder %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "New folder color")
	return cmd
}

func newFolderRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <folder-id>",
		Aliases: []string{"remove"},
		Short:   "Delete a folder; its channels become unassigned",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			unassigned, err := m.Library.DeleteFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s (%d channels unassigned)\n", args[0], unassigned)
			return nil
		},
	}
}

func folderNames(folders []models.Folder) map[string]string {
	names := make(map[string]string, len(folders))
	for _, f := range folders {
		names[f.ID] = f.Name
	}
	return names
}
