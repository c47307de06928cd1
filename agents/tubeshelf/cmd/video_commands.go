package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tubeshelf/agents/tubeshelf/library"
	"tubeshelf/internal/browser"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	var (
		query     library.VideoQuery
		unwatched bool
	)
	cmd := &cobra.Command{
		Use:   "videos",
		Short: "List stored videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			videos, err := m.Library.Query(query)
			if err != nil {
				return err
			}

			now := time.Now()
			var rows [][]string
			for _, v := range videos {
				watched := m.Library.IsWatched(v.ID)
				if unwatched && watched {
					continue
				}
				flags := ""
				if v.IsFavorite {
					flags += "★"
				}
				if watched {
					flags += "✓"
				}
				rows = append(rows, []string{
					v.ID,
					v.Title,
					v.ChannelName,
					library.FormatDuration(v.Duration),
					library.FormatAge(v.PublishedTime(), now),
					flags,
				})
			}
			writeRows(cmd.OutOrStdout(), []string{"ID", "Title", "Channel", "Length", "Published", ""}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft})
			return nil
		},
	}
	cmd.Flags().StringVarP(&query.FolderID, "folder", "f", "", "Folder to list (all, favorites or a folder id)")
	cmd.Flags().StringVarP(&query.Search, "search", "s", "", "Filter by title or channel name")
	cmd.Flags().StringVar(&query.Sort, "sort", library.SortDateDesc, "Sort order: date-desc, date-asc or channel")
	cmd.Flags().IntVarP(&query.Limit, "limit", "n", 0, "Maximum number of videos to show")
	cmd.Flags().BoolVar(&unwatched, "unwatched", false, "Hide watched videos")
	return cmd
}

func newFavoriteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fav <video-id>",
		Short: "Toggle a video's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			favorite, err := m.Library.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if favorite {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", args[0])
			}
			return nil
		},
	}
}

func newOpenCommand(ctx *commandContext) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "open <video-id>",
		Short: "Open a video in the browser and mark it watched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			url, err := m.OpenVideo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}
			if err := browser.Open(url); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\n", err)
				fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the URL instead of opening a browser")
	return cmd
}

func newWatchedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watched",
		Short: "List watched video ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			var rows [][]string
			for _, id := range m.Library.WatchedIDs() {
				title := ""
				if v, ok := m.Library.Video(id); ok {
					title = v.Title
				}
				rows = append(rows, []string{id, title})
			}
			writeRows(cmd.OutOrStdout(), []string{"ID", "Title"}, rows, nil)
			return nil
		},
	}
}
